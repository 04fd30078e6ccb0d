// Package kubectl wraps the kubectl binary and the user's kubeconfig. The
// forwarding itself is delegated to "kubectl port-forward" subprocesses;
// context and cluster queries read the merged kubeconfig directly.
package kubectl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"kfwd/internal/config"
)

// Client is the narrow interface the core consumes. Implementations must be
// safe for concurrent read-only use.
type Client interface {
	// Version returns the kubectl client version, or an error when the
	// binary is missing or unqueryable.
	Version() (string, error)
	// CurrentContext returns the active kubeconfig context.
	CurrentContext() (string, error)
	// CurrentCluster returns the cluster of the active context, or "" when
	// none is bound.
	CurrentCluster() (string, error)
	// ClusterFromContext returns the cluster bound to the named context, or
	// "" on zero or ambiguous matches.
	ClusterFromContext(context string) (string, error)
	// ContextFromCluster returns the context bound to the named cluster, or
	// "" on zero or ambiguous matches.
	ContextFromCluster(cluster string) (string, error)
	// SpawnForward launches a port-forward subprocess for the target with
	// piped stdout and stderr.
	SpawnForward(target config.Target) (Process, error)
}

// Process is a handle to a running forwarding subprocess.
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the subprocess terminates and returns a status
	// description. The error is non-nil only when waiting itself failed.
	Wait() (string, error)
	// Kill forcibly terminates the subprocess. Safe to call after exit.
	Kill()
}

// EnvKubectlPath overrides the kubectl binary location.
const EnvKubectlPath = "KUBECTL_PATH"

// Kubectl shells out to the kubectl binary.
type Kubectl struct {
	path string
}

// New builds a client for the given kubectl path. An empty path falls back
// to the KUBECTL_PATH environment variable, then to "kubectl" on PATH.
func New(path string) *Kubectl {
	if path == "" {
		path = os.Getenv(EnvKubectlPath)
	}
	if path == "" {
		path = "kubectl"
	}
	return &Kubectl{path: path}
}

type kubectlVersion struct {
	ClientVersion struct {
		GitVersion string `json:"gitVersion"`
	} `json:"clientVersion"`
}

// Version queries "kubectl version" for the client version string.
func (k *Kubectl) Version() (string, error) {
	out, err := exec.Command(k.path, "version", "--client", "--output=json").Output()
	if err != nil {
		return "", fmt.Errorf("running %s version: %w", k.path, err)
	}
	var version kubectlVersion
	if err := json.Unmarshal(out, &version); err != nil {
		return "", fmt.Errorf("reading kubectl version output: %w", err)
	}
	if version.ClientVersion.GitVersion == "" {
		return "", fmt.Errorf("kubectl version output carries no client version")
	}
	return version.ClientVersion.GitVersion, nil
}

// SpawnForward starts "kubectl port-forward" for the target and returns the
// running process with piped output streams.
func (k *Kubectl) SpawnForward(target config.Target) (Process, error) {
	cmd := exec.Command(k.path, forwardArgs(&target)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("piping stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("piping stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s port-forward: %w", k.path, err)
	}

	return &process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// forwardArgs builds the port-forward command line from the target's
// current field values.
func forwardArgs(t *config.Target) []string {
	args := []string{"port-forward"}
	if t.Context != "" {
		args = append(args, "--context", t.Context)
	}
	if t.Cluster != "" {
		args = append(args, "--cluster", t.Cluster)
	}
	if len(t.ListenAddrs) > 0 {
		args = append(args, "--address", strings.Join(t.ListenAddrs, ","))
	}
	args = append(args, "-n", t.Namespace)
	args = append(args, t.ResourceRef())
	for _, p := range t.Ports {
		args = append(args, p.ForwardArg())
	}
	return args
}

type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func (p *process) Stdout() io.Reader { return p.stdout }
func (p *process) Stderr() io.Reader { return p.stderr }

func (p *process) Wait() (string, error) {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ProcessState.String(), nil
	}
	if err != nil {
		return "", err
	}
	return p.cmd.ProcessState.String(), nil
}

func (p *process) Kill() {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
}
