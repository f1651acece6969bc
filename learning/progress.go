package learning

import "fmt"
import "strings"

// ProgressBar renders done out of total as a bar of the given width
// followed by the percentage, e.g. "[==========          ] 50%".
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if done > total {
		done = total
	}
	progress := done * width / total
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("=", progress), strings.Repeat(" ", width-progress), done*100/total)
}

// Progress redraws the progress bar line on stdout unless disabled. The
// line is terminated once the last epoch is reached.
func (h *HyperParameters) Progress(epoch, epochs int, loss float64) {
	if h.DisableProgressBar {
		return
	}
	const progressBarWidth = 40
	fmt.Printf("\r%s EPOCH %d/%d LOSS = %.6e ", ProgressBar(epoch, epochs, progressBarWidth), epoch, epochs, loss)
	if epoch >= epochs {
		fmt.Println()
	}
}
