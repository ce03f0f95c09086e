// Package cli implements the interactive terminal frontends.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/t-yamaguchi/revoca/internal/review"
)

//go:generate mockgen -source=review_session.go -destination=../mocks/cli/mock_review_service.go -package=mock_cli

// ReviewService is the part of the review orchestration the CLI drives.
type ReviewService interface {
	CreateSession(ctx context.Context, ownerID int64, mode review.Mode, maxWords int) (*review.View, error)
	SubmitAnswer(ctx context.Context, instanceID string, answer string, telemetry review.Telemetry) (*review.SubmitResult, error)
	CompleteSession(ctx context.Context, sessionID int64) (*review.Summary, error)
}

// Session runs one interaction round of an interactive CLI.
type Session interface {
	Session(ctx context.Context) error
}

var errEnd = errors.New("end")

// InteractiveReviewCLI walks the user through one review session.
type InteractiveReviewCLI struct {
	service      ReviewService
	view         *review.View
	index        int
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	now          func() time.Time
}

// NewInteractiveReviewCLI creates a review CLI reading from stdin.
func NewInteractiveReviewCLI(service ReviewService) *InteractiveReviewCLI {
	return &InteractiveReviewCLI{
		service:      service,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		now:          time.Now,
	}
}

// Start creates the session. It returns false when there is nothing to
// review.
func (cli *InteractiveReviewCLI) Start(ctx context.Context, ownerID int64, mode review.Mode, maxWords int) (bool, error) {
	view, err := cli.service.CreateSession(ctx, ownerID, mode, maxWords)
	if err != nil {
		return false, fmt.Errorf("service.CreateSession() > %w", err)
	}

	if len(view.Questions) == 0 {
		fmt.Fprintln(cli.stdoutWriter, "Nothing to review right now!")
		return false, nil
	}

	cli.view = view
	fmt.Fprintf(cli.stdoutWriter, "Starting a review session with %d questions.\n\n", len(view.Questions))
	return true, nil
}

func (cli *InteractiveReviewCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session asks one question and records the answer.
func (cli *InteractiveReviewCLI) Session(ctx context.Context) error {
	if cli.view == nil || cli.index >= len(cli.view.Questions) {
		fmt.Fprintln(cli.stdoutWriter, "No more questions!")
		return errEnd
	}
	q := cli.view.Questions[cli.index]

	fmt.Fprintf(cli.stdoutWriter, "Question %d/%d\n", cli.index+1, len(cli.view.Questions))
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, q.Content.QuestionText())
	if sentence := q.Content.ContextSentence(); sentence != "" {
		_, _ = cli.italic.Fprintf(cli.stdoutWriter, "  %s\n", sentence)
	}
	options := q.Content.Options()
	for i, option := range options {
		fmt.Fprintf(cli.stdoutWriter, "  %d) %s\n", i+1, option)
	}

	startTime := cli.now()
	answer, changes, err := cli.readAnswer(options)
	if err != nil {
		if errors.Is(err, errEnd) {
			return errEnd
		}
		return fmt.Errorf("error reading input: %w", err)
	}

	result, err := cli.service.SubmitAnswer(ctx, q.InstanceID, answer, review.Telemetry{
		TimeSpentMs:       cli.now().Sub(startTime).Milliseconds(),
		AnswerChangeCount: changes,
	})
	if err != nil {
		return fmt.Errorf("service.SubmitAnswer() > %w", err)
	}

	if err := cli.displayResult(result); err != nil {
		return err
	}

	cli.index++
	return nil
}

// Finish completes the session and prints the summary.
func (cli *InteractiveReviewCLI) Finish(ctx context.Context) error {
	if cli.view == nil {
		return nil
	}

	summary, err := cli.service.CompleteSession(ctx, cli.view.Session.ID)
	if err != nil {
		return fmt.Errorf("service.CompleteSession() > %w", err)
	}

	fmt.Fprintln(cli.stdoutWriter)
	fmt.Fprintf(cli.stdoutWriter, "Session complete: %d/%d correct (%.0f%%)\n",
		summary.CorrectCount, summary.TotalQuestions, summary.Accuracy*100)
	return nil
}

// readAnswer reads answer lines until a blank line commits the latest one.
// Re-entering an answer before committing counts as a revision. A number
// selects the matching option when the question has options.
func (cli *InteractiveReviewCLI) readAnswer(options []string) (string, int, error) {
	var answer string
	changes := 0
	committed := false

	fmt.Fprint(cli.stdoutWriter, "Answer (blank line submits): ")
	for {
		line, err := cli.stdinReader.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return "", 0, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			if committed {
				break
			}
			if eof {
				return "", 0, io.ErrUnexpectedEOF
			}
			fmt.Fprint(cli.stdoutWriter, "Answer (blank line submits): ")
			continue
		}
		if line == "quit" || line == "exit" {
			return "", 0, errEnd
		}

		if committed {
			changes++
		}
		answer = line
		committed = true
		if eof {
			break
		}
	}

	if len(options) > 0 {
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			answer = options[n-1]
		}
	}
	return answer, changes, nil
}

func (cli *InteractiveReviewCLI) displayResult(result *review.SubmitResult) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if result.IsCorrect {
		if _, err := fmt.Fprint(cli.stdoutWriter, "✅ "); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		if _, err := green.Fprintln(cli.stdoutWriter, "It's correct."); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	} else {
		if _, err := fmt.Fprint(cli.stdoutWriter, "❌ "); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		if _, err := red.Fprintf(cli.stdoutWriter, "It's wrong. The correct answer is %s\n",
			cli.bold.Sprintf("%s", result.CorrectAnswer),
		); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}

	if result.Explanation != "" {
		if _, err := fmt.Fprintf(cli.stdoutWriter, "   Explanation: %s\n", result.Explanation); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
	}
	fmt.Fprintln(cli.stdoutWriter)
	return nil
}
