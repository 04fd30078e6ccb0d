package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Bold(true)
)

// printHeader writes the startup banner with the application and kubectl
// client versions.
func printHeader(w io.Writer, appVersion, kubectlVersion string) {
	fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf("kfwd %s", appVersion))+
		" - a Kubernetes multi-cluster port forwarder")
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("Using kubectl version %s", kubectlVersion)))
	fmt.Fprintln(w)
}
