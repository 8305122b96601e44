package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
)

// editDocMsg is sent when editing produced a clean document.
type editDocMsg struct{ doc *lang.Document }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a failed
// check.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for another reason.
type editErrorMsg struct{ err error }

const (
	queryPrompt = "➜ "
	ctrlPrompt  = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  tree     Show the component trees
  rules    List style rules in source order
  ids      List ids
  classes  List classes and how many components carry them
  edit     Edit the document in $EDITOR
  clear    Clear screen
  quit     Exit

Usage:
  Type selectors to query: Type, #id or .class; several must all match
  Matches print with their ancestors and the rules that target them
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between query and command modes
  Use Up/Down arrows for history (mode switches automatically)
  Use Shift+Up/Shift+Down for history within the current mode
  Press Ctrl+C on empty line or Ctrl+D to exit`

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config describes one inspector session.
type Config struct {
	// Name labels the document in the header line.
	Name string
	// Doc is the document to inspect.
	Doc *lang.Document
	// HistoryPath is the history file; empty keeps history in memory.
	HistoryPath string
	// InputTTY reads keys from the controlling terminal instead of stdin,
	// for when stdin carried the document.
	InputTTY bool
	Logger   log.Logger
}

// model is the Bubble Tea model for the inspector.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	doc        *lang.Document
	vocab      []string
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTabText string        // input text before tab-cycling began
	preTabCur  int           // cursor position before tab-cycling began
	width      int           // terminal width for ellipsization
	quitting   bool
	banner     string
	mode       inputMode
	queryText  string
	queryCur   int
	ctrlText   string
	ctrlCur    int
}

// Run starts the inspector and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "inspect start",
		slog.String("source", cfg.Name),
		slog.String("history", cfg.HistoryPath),
		slog.Int("components", len(cfg.Doc.Components)),
		slog.Int("rules", len(cfg.Doc.Rules)),
	)

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err))
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.InputTTY {
		opts = append(opts, tea.WithInputTTY())
	}

	m := newModel(ctx, cfg.Doc, history, cfg.Logger)
	m.banner = header(cfg.Name, cfg.Doc)

	_, err = tea.NewProgram(m, opts...).Run()

	return err
}

// header summarises the document shown at startup.
func header(name string, doc *lang.Document) string {
	root := "none"
	if r := doc.Root(); r != nil {
		root = describe(r)
	}

	return fmt.Sprintf("%s: %d top-level components, %d rules, root %s (type help)",
		name, len(doc.Components), len(doc.Rules), root)
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	doc *lang.Document,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(queryPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		doc:        doc,
		vocab:      vocabulary(doc),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeQuery,
	}
}

func (m model) Init() tea.Cmd {
	if m.banner == "" {
		return textinput.Blink
	}

	return tea.Batch(textinput.Blink, tea.Println(hintStyle.Render(m.banner)))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(queryPrompt) - 2

		return m, nil

	case editDocMsg:
		m.doc = msg.doc
		m.vocab = vocabulary(m.doc)
		m.logger.TraceContext(m.ctxFunc(), "inspect edit complete",
			slog.Int("components", len(m.doc.Components)),
			slog.Int("rules", len(m.doc.Rules)),
		)

		return m, tea.Println(resultStyle.Render("document updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a selector (Type, #id, .class) or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "inspect keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCur)
			m.refreshMatches(false)

			return m, nil
		}

		if m.mode == modeQuery {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeQuery), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// Any other key edits or moves without auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves through the completion candidates by step, starting
// tab-cycling if it is not active. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCur = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// candidates returns the completion candidates for the current mode.
func (m *model) candidates() []string {
	if m.mode == modeCtrl {
		return ctrlCommands
	}

	return m.vocab
}

// refreshMatches recomputes the completions for the word at the cursor.
// With autoConfirm, a sole candidate equal to the typed word is accepted so
// the bar disappears once a word is complete.
func (m *model) refreshMatches(autoConfirm bool) {
	var word string

	word, m.wordStart, m.wordEnd = wordBounds(m.input.Value(), m.input.Position())
	m.matches = completions(word, m.candidates())

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 && m.matches[0].Str == word {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.queryText, m.queryCur = "", 0
	m.ctrlText, m.ctrlCur = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.logger.TraceContext(m.ctxFunc(), "inspect query",
		slog.String("input", input),
	)

	echo := tea.Println(promptStyle.Render(queryPrompt) + inputStyle.Render(input))

	matches, err := Query(m.doc, input)

	switch {
	case err != nil:
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))

	case len(matches) == 0:
		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("no components match")))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatMatches(matches))))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "inspect command",
		slog.String("command", parts[0]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "t", "tree":
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatTree(m.doc))))

	case "r", "rules":
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatRules(m.doc))))

	case "ids":
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatIDs(m.doc))))

	case "classes":
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatClasses(m.doc))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Println(errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		doc:     m.doc,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newDoc == nil:
			return editCancelledMsg{}
		}

		return editDocMsg{doc: cmd.newDoc}
	})
}

// historyStep moves through history by step. Unless sameMode is set, the
// input switches to the mode of the recalled entry. Stepping past the
// newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode switches to mode, saving the current input and restoring the
// input last typed in mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeQuery {
		m.queryText, m.queryCur = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCur = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeQuery {
		m.input.Prompt = promptStyle.Render(queryPrompt)
		m.input.SetValue(m.queryText)
		m.input.SetCursor(m.queryCur)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCur)
	}

	m.refreshMatches(false)

	return m
}
