package streamdeck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LaunchArgs are the flags the host passes when it starts the plugin.
type LaunchArgs struct {
	Port          int
	PluginUUID    string
	RegisterEvent string
	Info          string
}

// Launch flag names as the host spells them.
const (
	FlagPort          = "port"
	FlagPluginUUID    = "pluginUUID"
	FlagRegisterEvent = "registerEvent"
	FlagInfo          = "info"
)

var launchFlags = []string{FlagPort, FlagPluginUUID, FlagRegisterEvent, FlagInfo}

func (a LaunchArgs) Validate() error {
	var missing []string
	if a.Port <= 0 || a.Port > 65535 {
		missing = append(missing, "-"+FlagPort)
	}
	if a.PluginUUID == "" {
		missing = append(missing, "-"+FlagPluginUUID)
	}
	if a.RegisterEvent == "" {
		missing = append(missing, "-"+FlagRegisterEvent)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing or invalid launch flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NormalizeArgs rewrites the host's single-dash long flags ("-port 123")
// into the double-dash form POSIX flag parsers expect.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		name, _, _ := strings.Cut(arg[1:], "=")
		for _, f := range launchFlags {
			if name == f {
				out[i] = "-" + arg
				break
			}
		}
	}
	return out
}

// HostInfo is the subset of the -info document worth logging.
type HostInfo struct {
	Application struct {
		Platform string `json:"platform"`
		Version  string `json:"version"`
		Language string `json:"language"`
	} `json:"application"`
	Plugin struct {
		UUID    string `json:"uuid"`
		Version string `json:"version"`
	} `json:"plugin"`
	Devices []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type int    `json:"type"`
	} `json:"devices"`
}

// ParseInfo decodes the -info flag. An empty string yields an empty HostInfo.
func ParseInfo(raw string) (HostInfo, error) {
	var info HostInfo
	if strings.TrimSpace(raw) == "" {
		return info, nil
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return HostInfo{}, fmt.Errorf("parse -info: %w", err)
	}
	return info, nil
}
