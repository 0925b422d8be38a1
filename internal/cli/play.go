package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

// NewPlayCmd builds the CLI subcommand for the interactive quiz loop.
func NewPlayCmd(configPath, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Log in and take quizzes interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *dbPath)
		},
	}
}

func runPlay(ctx context.Context, configPath, dbFlag string) error {
	svcs, err := buildServices(ctx, configPath, dbFlag)
	if err != nil {
		return err
	}
	defer svcs.close()

	t := &terminal{in: bufio.NewScanner(os.Stdin), out: os.Stdout, svcs: svcs}
	return t.run(ctx)
}

// terminal is the presentation glue: it renders prompts and forwards every
// action to the application core. No business rules live here.
type terminal struct {
	in   *bufio.Scanner
	out  io.Writer
	svcs *services
}

func (t *terminal) run(ctx context.Context) error {
	for {
		fmt.Fprintln(t.out, "\n1) Login  2) Register  3) Forgot password  4) Quit")
		choice, err := t.readLine("> ")
		if err != nil {
			return nil
		}
		switch choice {
		case "1":
			if user, ok := t.login(ctx); ok {
				t.home(ctx, user)
			}
		case "2":
			t.register(ctx)
		case "3":
			t.forgotPassword(ctx)
		case "4", "q":
			return nil
		}
	}
}

func (t *terminal) login(ctx context.Context) (domain.User, bool) {
	identifier, err := t.readLine("Username or email: ")
	if err != nil {
		return domain.User{}, false
	}
	password, err := t.readLine("Password: ")
	if err != nil {
		return domain.User{}, false
	}

	user, err := t.svcs.accounts.Authenticate(ctx, identifier, password)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		fmt.Fprintln(t.out, "User not found. Please register.")
		return domain.User{}, false
	case errors.Is(err, domain.ErrInvalidCredentials):
		fmt.Fprintln(t.out, "Incorrect password.")
		return domain.User{}, false
	case err != nil:
		fmt.Fprintf(t.out, "Login failed: %v\n", err)
		return domain.User{}, false
	}
	return user, true
}

func (t *terminal) register(ctx context.Context) {
	var in app.RegisterInput
	var err error
	if in.Username, err = t.readLine("Username: "); err != nil {
		return
	}
	if in.Email, err = t.readLine("Email: "); err != nil {
		return
	}
	if in.Password, err = t.readLine("Password: "); err != nil {
		return
	}
	if in.ConfirmPassword, err = t.readLine("Confirm password: "); err != nil {
		return
	}
	ageRaw, err := t.readLine("Age: ")
	if err != nil {
		return
	}
	if in.Age, err = strconv.Atoi(ageRaw); err != nil {
		fmt.Fprintln(t.out, "Enter a valid age.")
		return
	}
	if in.Gender, err = t.readLine("Gender: "); err != nil {
		return
	}

	user, err := t.svcs.accounts.Register(ctx, in)
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		fmt.Fprintln(t.out, "Username or email already exists.")
	case err != nil:
		fmt.Fprintf(t.out, "Registration failed: %v\n", err)
	default:
		fmt.Fprintf(t.out, "Registered successfully as %s. You can login now.\n", user.Category)
	}
}

func (t *terminal) forgotPassword(ctx context.Context) {
	email, err := t.readLine("Registered email: ")
	if err != nil {
		return
	}
	newPassword, err := t.readLine("New password: ")
	if err != nil {
		return
	}

	err = t.svcs.accounts.ResetPassword(ctx, email, newPassword)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		fmt.Fprintln(t.out, "No user with that email.")
	case err != nil:
		fmt.Fprintf(t.out, "Reset failed: %v\n", err)
	default:
		fmt.Fprintln(t.out, "Password reset. Please login with the new password.")
	}
}

func (t *terminal) home(ctx context.Context, user domain.User) {
	for {
		fmt.Fprintf(t.out, "\nHello, %s (Age: %d, Category: %s)\n", user.Username, user.Age, user.Category)
		fmt.Fprintln(t.out, "1) Start quiz  2) Scoreboard  3) Clear my attempts  4) Logout")
		choice, err := t.readLine("> ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			t.startQuiz(ctx, user)
		case "2":
			t.scoreboard(ctx)
		case "3":
			t.clearAttempts(ctx, user)
		case "4", "q":
			return
		}
	}
}

func (t *terminal) startQuiz(ctx context.Context, user domain.User) {
	categories := domain.Categories()
	for i, cat := range categories {
		fmt.Fprintf(t.out, "%d) %s  ", i+1, cat)
	}
	fmt.Fprintln(t.out)
	catRaw, err := t.readLine(fmt.Sprintf("Category [%s]: ", user.Category))
	if err != nil {
		return
	}
	category := user.Category
	if idx, convErr := strconv.Atoi(catRaw); convErr == nil && idx >= 1 && idx <= len(categories) {
		category = categories[idx-1]
	}

	roundRaw, err := t.readLine("Round (1-3) [1]: ")
	if err != nil {
		return
	}
	roundNumber := 1
	if idx, convErr := strconv.Atoi(roundRaw); convErr == nil {
		roundNumber = idx
	}

	limitRaw, err := t.readLine("Time limit in minutes (0 for none) [0]: ")
	if err != nil {
		return
	}
	timeLimit := 0.0
	if limitRaw != "" {
		if timeLimit, err = strconv.ParseFloat(limitRaw, 64); err != nil {
			fmt.Fprintln(t.out, "Enter a valid number for time limit.")
			return
		}
	}

	session, err := t.svcs.quizzes.StartQuiz(ctx, user, category, roundNumber, timeLimit)
	if err != nil {
		fmt.Fprintf(t.out, "Could not start quiz: %v\n", err)
		return
	}
	t.quizLoop(ctx, session)
}

func (t *terminal) quizLoop(ctx context.Context, session *app.Session) {
	if session.Len() == 0 {
		fmt.Fprintln(t.out, "No questions for this category/round.")
		return
	}

	// The session only consumes seconds; this loop owns the ticker and stops
	// it on manual submission or abandonment.
	expired := make(chan domain.ScoreRecord, 1)
	stop := make(chan struct{})
	defer close(stop)
	if _, armed := session.Remaining(); armed {
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					_, done, rec, err := session.AdvanceSecond(ctx)
					if !done {
						continue
					}
					if err != nil {
						fmt.Fprintf(t.out, "\nauto-submit failed: %v\n", err)
					} else {
						expired <- rec
					}
					return
				case <-stop:
					return
				}
			}
		}()
	}

	for {
		select {
		case rec := <-expired:
			fmt.Fprintf(t.out, "\nTime's up! You scored %d/%d\n", rec.Score, rec.Total)
			return
		default:
		}

		t.showQuestion(session)
		line, err := t.readLine("> ")
		if err != nil {
			return
		}
		if session.Submitted() {
			select {
			case rec := <-expired:
				fmt.Fprintf(t.out, "\nTime's up! You scored %d/%d\n", rec.Score, rec.Total)
			default:
			}
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "n":
			session.Next()
		case "p":
			session.Prev()
		case "j":
			if len(fields) == 2 {
				if idx, convErr := strconv.Atoi(fields[1]); convErr == nil {
					session.JumpTo(idx - 1)
				}
			}
		case "u":
			_ = session.RecordAnswer(app.Unanswered)
		case "s":
			confirm, err := t.readLine("Submit quiz now? (y/n) ")
			if err != nil || confirm != "y" {
				continue
			}
			rec, err := session.Submit(ctx)
			switch {
			case errors.Is(err, domain.ErrNoQuestions):
				fmt.Fprintln(t.out, "No questions available.")
			case errors.Is(err, domain.ErrQuizSubmitted):
				// The countdown won the race; the expired branch reports it.
				continue
			case err != nil:
				fmt.Fprintf(t.out, "Submit failed: %v\n", err)
				continue
			default:
				fmt.Fprintf(t.out, "You scored %d/%d\n", rec.Score, rec.Total)
			}
			return
		case "q":
			return
		default:
			if choice, convErr := strconv.Atoi(fields[0]); convErr == nil {
				if err := session.RecordAnswer(choice - 1); err != nil {
					fmt.Fprintln(t.out, "Pick one of the listed options.")
				}
			}
		}
	}
}

func (t *terminal) showQuestion(session *app.Session) {
	q, pos, count, ok := session.Question()
	if !ok {
		return
	}
	if remaining, armed := session.Remaining(); armed {
		fmt.Fprintf(t.out, "\nTime left: %s\n", formatSeconds(remaining))
	}

	markers := make([]string, 0, count)
	for i := 0; i < count; i++ {
		marker := strconv.Itoa(i + 1)
		if session.Answered(i) {
			marker += "*"
		}
		markers = append(markers, marker)
	}
	fmt.Fprintf(t.out, "[%s]\n", strings.Join(markers, " "))

	fmt.Fprintf(t.out, "Q %d/%d: %s\n", pos+1, count, q.Prompt)
	current := session.Answer(pos)
	for i, opt := range q.Options {
		mark := " "
		if i == current {
			mark = ">"
		}
		fmt.Fprintf(t.out, "%s %d) %s\n", mark, i+1, opt)
	}
	fmt.Fprintln(t.out, "answer 1-4, n(ext), p(rev), j <n>, u(nset), s(ubmit), q(uit)")
}

func (t *terminal) scoreboard(ctx context.Context) {
	lb, err := t.svcs.scores.Leaderboard(ctx, t.svcs.limit)
	if err != nil {
		fmt.Fprintf(t.out, "Could not load scoreboard: %v\n", err)
		return
	}
	if len(lb.Entries) == 0 {
		fmt.Fprintln(t.out, "No scores yet.")
		return
	}
	for i, entry := range lb.Entries {
		fmt.Fprintf(t.out, "%2d. %-20s %3d/%-3d %-10s %s\n",
			i+1, entry.Username, entry.Score, entry.Total, entry.Category,
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
}

func (t *terminal) clearAttempts(ctx context.Context, user domain.User) {
	confirm, err := t.readLine("Clear all your attempts? (y/n) ")
	if err != nil || confirm != "y" {
		return
	}
	if err := t.svcs.scores.ClearForUser(ctx, user.ID); err != nil {
		fmt.Fprintf(t.out, "Clear failed: %v\n", err)
		return
	}
	fmt.Fprintln(t.out, "Your attempts were cleared.")
}

func (t *terminal) readLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
