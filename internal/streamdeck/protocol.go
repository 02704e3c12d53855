package streamdeck

import "encoding/json"

// Inbound event names.
const (
	EventWillAppear         = "willAppear"
	EventWillDisappear      = "willDisappear"
	EventKeyDown            = "keyDown"
	EventKeyUp              = "keyUp"
	EventDidReceiveSettings = "didReceiveSettings"
	EventSendToPlugin       = "sendToPlugin"
)

// Outbound event names.
const (
	eventSetTitle    = "setTitle"
	eventSetState    = "setState"
	eventSetImage    = "setImage"
	eventShowOk      = "showOk"
	eventSetSettings = "setSettings"
	eventLogMessage  = "logMessage"
)

// Target 0 renders on both the hardware and the software key.
const targetBoth = 0

type inbound struct {
	Action  string          `json:"action"`
	Event   string          `json:"event"`
	Context string          `json:"context"`
	Device  string          `json:"device"`
	Payload json.RawMessage `json:"payload"`
}

type keyPayload struct {
	Settings        json.RawMessage `json:"settings"`
	State           int             `json:"state"`
	IsInMultiAction bool            `json:"isInMultiAction"`
}

// pluginMessage is what the property inspector sends with sendToPlugin.
type pluginMessage struct {
	Command string `json:"command"`
}

type outbound struct {
	Event   string `json:"event"`
	Context string `json:"context,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type registration struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

type titlePayload struct {
	Title  string `json:"title"`
	Target int    `json:"target"`
}

type statePayload struct {
	State int `json:"state"`
}

// An omitted image resets the key to its state's manifest image.
type imagePayload struct {
	Image  string `json:"image,omitempty"`
	Target int    `json:"target"`
}

type logPayload struct {
	Message string `json:"message"`
}
