package provision

// cSpell: words lipgloss
import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/solonode/solonode/pkg/k8s"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func okString(b bool) string {
	if b {
		return "ready"
	}
	return "not ready"
}

// PrintSummary writes the final operator-facing report: node and pod status,
// the installed CNI and Helm version, and the worker join command.
func PrintSummary(w io.Writer, data *RunData) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Cluster provisioned"))

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("CNI:"), data.Config.CNI)
	if data.HelmVersion != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Helm:"), data.HelmVersion)
	}

	if len(data.Nodes) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Nodes:"))
		for _, node := range data.Nodes {
			fmt.Fprintf(w, "  %s %s (%s)\n", node.Name, okString(node.Ready), node.Version)
		}
	}

	printPods(w, "System pods:", data.SystemPods)
	printPods(w, "CNI pods:", data.CNIPods)

	if data.JoinCommand != "" {
		fmt.Fprintln(w, labelStyle.Render("Join additional nodes with:"))
		fmt.Fprintf(w, "  %s\n", data.JoinCommand)
	}
}

func printPods(w io.Writer, label string, pods []k8s.PodStatus) {
	if len(pods) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render(label))
	for _, pod := range pods {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render(pod.String()))
	}
}
