package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/webtension/internal/metrics"
	"github.com/san-kum/webtension/internal/tension"
)

type TickMsg time.Time

const (
	frameRate = time.Second / 30
	maxBar    = 40
	minBar    = 10
	rowChrome = 30 // label, value, panel border and padding
	jumpSecs  = 1.0
)

// Viewer plays back a finished run one sample at a time.
type Viewer struct {
	title     string
	result    *tension.Result
	reports   []metrics.ZoneReport
	maxStrain float64
	frame     int
	jump      int
	playing   bool
	showStr   bool
	peak      float64
	peakStr   float64
	width     int
}

func NewViewer(title string, r *tension.Result, maxStrain float64) Viewer {
	v := Viewer{
		title:     title,
		result:    r,
		reports:   metrics.Evaluate(r, maxStrain),
		maxStrain: maxStrain,
		jump:      1,
		width:     80,
	}
	if r.Dt > 0 {
		v.jump = max(int(jumpSecs/r.Dt+0.5), 1)
	}
	for _, rep := range v.reports {
		v.peak = max(v.peak, rep.PeakTension)
	}
	r.Strain.Each(func(_ string, s []float64) bool {
		for _, x := range s {
			v.peakStr = max(v.peakStr, x)
		}
		return true
	})
	return v
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Frame() int { return v.frame }

func (v Viewer) Playing() bool { return v.playing }

func (v Viewer) last() int { return max(v.result.Samples()-1, 0) }

func (v Viewer) seek(frame int) Viewer {
	v.frame = min(max(frame, 0), v.last())
	return v
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case TickMsg:
		if !v.playing {
			return v, nil
		}
		if v.frame >= v.last() {
			v.playing = false
			return v, nil
		}
		v.frame++
		return v, tick()
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (Viewer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return v, tea.Quit
	case " ":
		v.playing = !v.playing
		if v.playing {
			if v.frame >= v.last() {
				v.frame = 0
			}
			return v, tick()
		}
	case "right", "l":
		v = v.seek(v.frame + 1)
	case "left", "h":
		v = v.seek(v.frame - 1)
	case "]":
		v = v.seek(v.frame + v.jump)
	case "[":
		v = v.seek(v.frame - v.jump)
	case "home", "g":
		v = v.seek(0)
	case "end", "G":
		v = v.seek(v.last())
	case "tab":
		v.showStr = !v.showStr
	}
	return v, nil
}

func (v Viewer) View() string {
	var b strings.Builder

	b.WriteString(Title.Render(v.title))
	b.WriteString("\n")

	status := StatusPaused.Render("paused")
	if v.playing {
		status = StatusPlaying.Render("playing")
	}
	quantity := "tension (N)"
	if v.showStr {
		quantity = "strain (%)"
	}
	t := 0.0
	if v.frame < len(v.result.Time) {
		t = v.result.Time[v.frame]
	}
	fmt.Fprintf(&b, "%s  %s %s  %s %s\n\n",
		status,
		MetricLabel.Render("t ="), MetricValue.Render(fmt.Sprintf("%.2fs", t)),
		MetricLabel.Render("showing"), MetricValue.Render(quantity))

	if len(v.reports) == 0 {
		b.WriteString(Subtle.Render("no sections"))
		b.WriteString("\n")
	}

	for _, rep := range v.reports {
		ten := v.at(v.result.Tension, rep.ID)
		str := v.at(v.result.Strain, rep.ID)
		danger := v.maxStrain > 0 && str > v.maxStrain

		frac, value := 0.0, fmt.Sprintf("%8.2f", ten)
		if v.showStr {
			value = fmt.Sprintf("%8.3f", str*100)
			if v.peakStr > 0 {
				frac = str / v.peakStr
			}
		} else if v.peak > 0 {
			frac = ten / v.peak
		}

		label := fmt.Sprintf("%-14s", rep.ID)
		if danger {
			label = Danger.Render(label)
		}
		fmt.Fprintf(&b, "%s %s %s\n", label, Bar(frac, v.barCells(), danger), MetricValue.Render(value))
	}

	b.WriteString("\n")
	b.WriteString(KeyHint.Render("space play/pause  ←/→ step  [/] ±1s  home/end  tab tension/strain  q quit"))
	return Panel.Render(b.String())
}

// barCells fits the bars to the terminal width.
func (v Viewer) barCells() int {
	return min(maxBar, max(v.width-rowChrome, minBar))
}

func (v Viewer) at(s *tension.SeriesMap, id string) float64 {
	values, ok := s.Get(id)
	if !ok || v.frame >= len(values) {
		return 0
	}
	return values[v.frame]
}
