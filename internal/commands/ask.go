package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/chat"
	apierrors "github.com/diogo/projassist/internal/errors"
	"github.com/diogo/projassist/internal/history"
	"github.com/diogo/projassist/internal/logging"
	"github.com/diogo/projassist/internal/models"
	"github.com/diogo/projassist/internal/render"
)

// askOptions are the flags of the ask command
type askOptions struct {
	file   string
	direct bool
	raw    bool
	json   bool
	html   bool
}

func newAskCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question",
		Long: `Send one question to the assistant and print the answer.

The question comes from the argument, a file (-f) or stdin. Answers are
decorated on a terminal; --raw prints the text as received, --json the
assistant message and --html the rendered answer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(cmd.InOrStdin(), opts.file, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, flags, opts, question)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&opts.direct, "direct", false, "Talk to the backend in-process instead of through the gateway")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the answer text without formatting")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the assistant message as JSON")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Print the answer rendered as HTML")
	cmd.MarkFlagsMutuallyExclusive("raw", "json", "html")

	return cmd
}

// readQuestion picks the question from a file, the positional argument or
// stdin, in that order.
func readQuestion(stdin io.Reader, file string, args []string) (string, error) {
	var question string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		question = string(data)
	case len(args) > 0:
		question = args[0]
	case stdin != nil && !isCharDevice(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		question = string(data)
	}

	if strings.TrimSpace(question) == "" {
		return "", apierrors.ErrEmptyQuestion
	}
	return question, nil
}

// isCharDevice reports whether r is an interactive terminal
func isCharDevice(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return true
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// runAsk runs one turn through a chat controller and prints the answer
func runAsk(cmd *cobra.Command, deps *Dependencies, flags *rootFlags, opts *askOptions, question string) error {
	cfg, err := loadSettings(deps, flags)
	if err != nil {
		return err
	}

	logger := logging.NewCLI(cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	asker, err := deps.NewAsker(cfg, opts.direct, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var askErr error
	recorder := chat.AskerFunc(func(ctx context.Context, q string) (*models.AssistantResponse, error) {
		resp, err := asker.Ask(ctx, q)
		askErr = err
		return resp, err
	})

	store := history.NewStore(models.Greeting)
	ctrl := chat.NewController(store, recorder, chat.WithLogger(logger))
	ctrl.SetBuffer(question)

	decorate := !opts.raw && !opts.json && !opts.html && deps.IsTerminal()
	stderr := cmd.ErrOrStderr()

	var spin *spinner
	if decorate {
		spin = newSpinner(stderr, "Asking the assistant")
		spin.start()
	}

	start := time.Now()
	if !ctrl.Submit(cmd.Context()) {
		if spin != nil {
			spin.stopWithError()
		}
		return apierrors.ErrEmptyQuestion
	}
	logger.Debug("turn finished", zap.Duration("took", time.Since(start)))

	answer, _ := store.LastOfType(models.MessageAssistant)
	if spin != nil {
		if askErr != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	if err := printAnswer(cmd.OutOrStdout(), answer, opts, decorate, deps.TerminalWidth); err != nil {
		return err
	}

	if decorate && cfg.CopyToClipboard {
		if err := deps.Copy(answer.Content); err != nil {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorWarn).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if askErr != nil {
		return fmt.Errorf("assistant request failed: %w", askErr)
	}
	return nil
}

// printAnswer writes the assistant message in the requested format
func printAnswer(w io.Writer, answer models.Message, opts *askOptions, decorate bool, width func() int) error {
	switch {
	case opts.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	case opts.html:
		_, err := fmt.Fprintln(w, render.HTML(render.Parse(answer.Content)))
		return err
	case opts.raw:
		_, err := fmt.Fprintln(w, answer.Content)
		return err
	case decorate:
		bubbleWidth := width() - 4
		if bubbleWidth < 40 {
			bubbleWidth = 40
		}
		if bubbleWidth > 120 {
			bubbleWidth = 120
		}

		body := render.Terminal(render.Parse(answer.Content), render.DefaultStyles())
		fmt.Fprintln(w, assistantLabelStyle.Render("✦ Assistant"))
		_, err := fmt.Fprintln(w, assistantBubbleStyle.Width(bubbleWidth).Render(body))
		return err
	default:
		_, err := fmt.Fprintln(w, render.Terminal(render.Parse(answer.Content), render.PlainStyles()))
		return err
	}
}

// Gradient colors for the spinner animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#10b981"),
	lipgloss.Color("#34d399"),
	lipgloss.Color("#6ee7b7"),
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#00d2d3"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarn     = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// spinner draws an animated waiting line on a writer
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
