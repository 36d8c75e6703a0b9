package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
	"github.com/shopspring/decimal"
)

// ErrInput is returned when a field is still malformed after maxAttempts tries.
var ErrInput = errors.New("invalid input")

// errQuit unwinds the loop when the exit entry is chosen.
var errQuit = errors.New("quit")

const maxAttempts = 3

type command struct {
	label string
	run   func(*Shell) error
}

// Menu order is the numbering shown to the user; exit is last.
var menu = []command{
	{"Add Item", (*Shell).addItem},
	{"Add Customer", (*Shell).addCustomer},
	{"Purchase Item", (*Shell).purchase},
	{"Restock Item", (*Shell).restock},
	{"Display All Items", (*Shell).listItems},
	{"Display All Customers", (*Shell).listCustomers},
	{"View Customer Purchases", (*Shell).viewPurchases},
	{"Save Data to File", (*Shell).save},
	{"Load Data from File", (*Shell).load},
	{"Check Low Stock", (*Shell).lowStock},
	{"Search Items", (*Shell).search},
	{"View Sales History", (*Shell).salesHistory},
	{"Exit", (*Shell).exit},
}

type Shell struct {
	ledger *store.Ledger
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
	styles styles

	lowStockThreshold int
}

type Option func(*Shell)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLowStockThreshold sets the threshold used when the prompt is left blank.
func WithLowStockThreshold(n int) Option {
	return func(s *Shell) { s.lowStockThreshold = n }
}

func New(ledger *store.Ledger, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		ledger:            ledger,
		in:                bufio.NewReader(in),
		out:               out,
		logger:            slog.Default(),
		styles:            newStyles(out),
		lowStockThreshold: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the exit entry is chosen or input ends. Operation
// failures are printed and the loop continues; only a read error from the
// input stream is returned.
func (s *Shell) Run() error {
	for {
		s.printMenu()
		line, err := s.readLine("Enter your choice: ")
		if err != nil {
			return quitErr(err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < 1 || choice > len(menu) {
			s.println("Invalid choice. Please try again.")
			continue
		}

		cmd := menu[choice-1]
		if err := cmd.run(s); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return quitErr(err)
			}
			if isReadErr(err) {
				return err
			}
			s.logger.Info("operation failed", "operation", cmd.label, "error", err)
			s.println(s.styles.err.Render("Error: " + err.Error()))
		}
	}
}

type readError struct{ err error }

func (e *readError) Error() string { return "read input: " + e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func isReadErr(err error) bool {
	var re *readError
	return errors.As(err, &re)
}

func quitErr(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	s.println("")
	s.println(s.styles.header.Render("===== Grocery Management System ====="))
	for i, c := range menu {
		s.printf("%d. %s\n", i+1, c.label)
	}
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// readLine prompts and returns the next input line, of any length. End of
// input is io.EOF; a final line without a newline is still returned.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", &readError{err}
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readField prompts until parse accepts the trimmed line, giving up after
// maxAttempts with ErrInput.
func readField[T any](s *Shell, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		line, err := s.readLine(prompt)
		if err != nil {
			return zero, err
		}
		v, err := parse(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		if attempt == maxAttempts {
			return zero, fmt.Errorf("%w: %w", ErrInput, err)
		}
		s.println(s.styles.warn.Render(err.Error() + ", try again."))
	}
}

func parseInt(least int) func(string) (int, error) {
	return func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number", v)
		}
		if n < least {
			return 0, fmt.Errorf("%d is below the minimum of %d", n, least)
		}
		return n, nil
	}
}

func parsePrice(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a price", v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %s is negative", d)
	}
	return d, nil
}

func parseDate(v string) (*time.Time, error) {
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a date", v)
	}
	return d, nil
}

// parseText accepts any line the save format can hold.
func parseText(v string) (string, error) {
	if strings.Contains(v, "|") {
		return "", errors.New("'|' is not allowed")
	}
	return v, nil
}

func parseRequiredText(v string) (string, error) {
	if v == "" {
		return "", errors.New("a value is required")
	}
	return parseText(v)
}
