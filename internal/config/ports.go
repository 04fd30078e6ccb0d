package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PortMapping binds a local port to a remote port. A zero Local means the
// local port is left for kubectl to pick.
type PortMapping struct {
	Local  uint16 `yaml:"local"`
	Remote uint16 `yaml:"remote"`
}

// String renders the mapping in "local:remote" form, omitting an
// unassigned local port.
func (p PortMapping) String() string {
	if p.Local == 0 {
		return fmt.Sprintf(":%d", p.Remote)
	}
	return fmt.Sprintf("%d:%d", p.Local, p.Remote)
}

// ForwardArg is the port argument passed to kubectl port-forward.
func (p PortMapping) ForwardArg() string {
	return p.String()
}

// ParsePortSpec parses the string forms of a port spec: "80" (remote only),
// ":80" (remote only) and "5012:80" (local:remote).
func ParsePortSpec(s string) (PortMapping, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		remote, err := parsePortNumber(parts[0])
		if err != nil {
			return PortMapping{}, err
		}
		return PortMapping{Remote: remote}, nil
	case 2:
		var local uint16
		if parts[0] != "" {
			var err error
			local, err = parsePortNumber(parts[0])
			if err != nil {
				return PortMapping{}, err
			}
		}
		remote, err := parsePortNumber(parts[1])
		if err != nil {
			return PortMapping{}, err
		}
		return PortMapping{Local: local, Remote: remote}, nil
	default:
		return PortMapping{}, fmt.Errorf("invalid port spec %q, expected \"remote\" or \"local:remote\"", s)
	}
}

func parsePortNumber(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid port number %q", s)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("invalid port number %d: must be in range 1-65535", n)
	}
	return uint16(n), nil
}

// UnmarshalYAML accepts a bare number (remote-only), a string in one of the
// ParsePortSpec forms, or a {local, remote} mapping.
func (p *PortMapping) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		mapping, err := ParsePortSpec(value.Value)
		if err != nil {
			return err
		}
		*p = mapping
		return nil
	case yaml.MappingNode:
		var raw struct {
			Local  *int `yaml:"local"`
			Remote *int `yaml:"remote"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw.Remote == nil {
			return fmt.Errorf("port spec is missing the remote port")
		}
		if *raw.Remote < 1 || *raw.Remote > 65535 {
			return fmt.Errorf("invalid port number %d: must be in range 1-65535", *raw.Remote)
		}
		mapping := PortMapping{Remote: uint16(*raw.Remote)}
		if raw.Local != nil {
			if *raw.Local < 1 || *raw.Local > 65535 {
				return fmt.Errorf("invalid port number %d: must be in range 1-65535", *raw.Local)
			}
			mapping.Local = uint16(*raw.Local)
		}
		*p = mapping
		return nil
	default:
		return fmt.Errorf("port spec must be a number, a string or a {local, remote} mapping")
	}
}
