package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TargetID identifies a selected target for the lifetime of one run. It is
// assigned at selection time and used to correlate events back to targets.
type TargetID int

// String makes TargetID satisfy fmt.Stringer, rendering as "#0", "#1", ...
func (id TargetID) String() string {
	return fmt.Sprintf("#%d", int(id))
}

// ResourceType is the kind of Kubernetes resource to forward to.
type ResourceType string

const (
	ResourceService    ResourceType = "service"
	ResourceDeployment ResourceType = "deployment"
	ResourcePod        ResourceType = "pod"
)

// Arg returns the resource prefix used on the kubectl command line.
func (r ResourceType) Arg() string {
	return string(r)
}

func (r *ResourceType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch ResourceType(raw) {
	case ResourceService, ResourceDeployment, ResourcePod:
		*r = ResourceType(raw)
		return nil
	}
	return fmt.Errorf("unknown resource type %q, expected service, deployment or pod", raw)
}

// Document is one parsed configuration source. It is a pure value from
// parsing until it is consumed by the merger.
type Document struct {
	Version string               `yaml:"version"`
	Config  *OperationalSettings `yaml:"config"`
	Targets []Target             `yaml:"targets"`
}

// OperationalSettings holds global settings shared by all targets.
type OperationalSettings struct {
	// RetryDelaySec is the number of seconds to delay respawns for.
	RetryDelaySec *float64 `yaml:"retry_delay_sec"`
}

// DefaultRetryDelaySec applies when no configuration source sets a delay.
const DefaultRetryDelaySec = 5.0

// Sanitize fills in the default delay and clamps negative values to zero.
func (s *OperationalSettings) Sanitize() {
	if s.RetryDelaySec == nil {
		d := DefaultRetryDelaySec
		s.RetryDelaySec = &d
		return
	}
	if *s.RetryDelaySec < 0 {
		*s.RetryDelaySec = 0
	}
}

// RetryDelay returns the configured delay as a duration, applying the
// default when unset.
func (s *OperationalSettings) RetryDelay() time.Duration {
	if s == nil || s.RetryDelaySec == nil {
		return time.Duration(DefaultRetryDelaySec * float64(time.Second))
	}
	return time.Duration(*s.RetryDelaySec * float64(time.Second))
}

// Target is one port-forwarding definition.
type Target struct {
	// SourceFile designates the file this target was loaded from.
	// Provenance only, never merged.
	SourceFile string `yaml:"-"`
	// Name is an optional display name for this target.
	Name string `yaml:"name"`
	// Tags select targets on the command line.
	Tags TagSet `yaml:"tags"`
	// Context is the kubeconfig context to use.
	Context string `yaml:"context"`
	// Cluster is the kubeconfig cluster to use.
	Cluster string `yaml:"cluster"`
	// ListenAddrs are local addresses to bind; IP addresses or "localhost".
	ListenAddrs []string `yaml:"listen_addrs"`
	// Namespace of the resource, defaults to "default".
	Namespace string `yaml:"namespace"`
	// Type of resource to forward to, defaults to service.
	Type ResourceType `yaml:"type"`
	// Target is the name of the resource to forward to. Required; also the
	// merge key across configuration files.
	Target string `yaml:"target"`
	// Ports to forward.
	Ports []PortMapping `yaml:"ports"`
}

// DisplayName returns the optional name, falling back to the resource name.
func (t *Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Target
}

// ResourceRef renders the kubectl resource reference, e.g. "service/foo".
func (t *Target) ResourceRef() string {
	return fmt.Sprintf("%s/%s", t.Type.Arg(), t.Target)
}

// Clone returns a deep copy. Each supervisor receives its own clone so no
// target state is shared during the forwarding phase.
func (t *Target) Clone() Target {
	c := *t
	if t.Tags != nil {
		c.Tags = make(TagSet, len(t.Tags))
		for tag := range t.Tags {
			c.Tags[tag] = struct{}{}
		}
	}
	c.ListenAddrs = append([]string(nil), t.ListenAddrs...)
	c.Ports = append([]PortMapping(nil), t.Ports...)
	return c
}

func (t *Target) applyDefaults() {
	if t.Namespace == "" {
		t.Namespace = "default"
	}
	if t.Type == "" {
		t.Type = ResourceService
	}
}

func (t *Target) validate() error {
	if t.Target == "" {
		return fmt.Errorf("target name is required")
	}
	for _, addr := range t.ListenAddrs {
		if err := validateListenAddr(addr); err != nil {
			return err
		}
	}
	return nil
}

// validateListenAddr accepts the literal "localhost", IPv4 addresses and
// bracketed IPv6 addresses.
func validateListenAddr(addr string) error {
	if addr == "localhost" {
		return nil
	}
	if strings.HasPrefix(addr, "[") && strings.HasSuffix(addr, "]") {
		ip := addr[1 : len(addr)-1]
		if net.ParseIP(ip) != nil {
			return nil
		}
		return fmt.Errorf("invalid IPv6 listen address %q", addr)
	}
	if net.ParseIP(addr) != nil {
		return nil
	}
	return fmt.Errorf("listen address must be either \"localhost\" or a valid IP address, got %q", addr)
}
