package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the web dashboard.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeChat runs the gateway connection and chat command listener.
	ServiceModeChat ServiceMode = "chat"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeChat}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeChat:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, chat)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}
