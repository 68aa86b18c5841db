// Package tui is the interactive surface of the capture workflow. It follows
// The Elm Architecture: the model mirrors the workflow state, messages carry
// the results of asynchronous operations, and the view renders whichever
// screen the workflow is on.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rafamesquita/BlindStyle-TCC/internal/capture"
	"github.com/rafamesquita/BlindStyle-TCC/internal/media"
	"github.com/rafamesquita/BlindStyle-TCC/internal/speech"
	"github.com/rafamesquita/BlindStyle-TCC/internal/suggest"
)

// screen is which view is on screen. It tracks, but is not identical to, the
// workflow state: the file-path prompt is purely a view concern.
type screen int

const (
	screenCamera screen = iota
	screenFilePrompt
	screenLoading
	screenReview
	screenSuggestions
	screenSuggestionEmpty
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type cameraStartedMsg struct{ err error }
type describedMsg struct{ err error }
type savedMsg struct{}
type suggestedMsg struct{ err error }
type errTickMsg struct{}
type noticeTickMsg struct{}

// App is the capture-session TUI model.
type App struct {
	workflow *capture.Workflow
	speaker  speech.Speaker
	facing   media.Facing

	screen    screen
	spin      spinner.Model
	nameInput textinput.Model
	fileInput textinput.Model

	loadingText string
	errMsg      string
	notice      string
}

// NewApp creates the TUI around an existing workflow. When filePath is
// non-empty the session starts on the file path instead of the camera.
func NewApp(workflow *capture.Workflow, speaker speech.Speaker, facing media.Facing, filePath string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	name := textinput.New()
	name.Placeholder = capture.DefaultItemName
	name.CharLimit = 60

	file := textinput.New()
	file.Placeholder = "/caminho/para/imagem.jpg"
	file.SetValue(filePath)

	return &App{
		workflow:  workflow,
		speaker:   speaker,
		facing:    facing,
		screen:    screenCamera,
		spin:      sp,
		nameInput: name,
		fileInput: file,
	}
}

// Run starts the TUI and blocks until the user quits. The workflow is torn
// down on every exit path.
func (a *App) Run() error {
	defer a.workflow.Close()
	_, err := tea.NewProgram(a).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	if a.fileInput.Value() != "" {
		a.screen = screenLoading
		a.loadingText = "Gerando descrição..."
		return tea.Batch(a.spin.Tick, a.describeFileCmd(a.fileInput.Value()))
	}
	return a.spin.Tick
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case cameraStartedMsg:
		if msg.err != nil {
			// The controller already reset itself and scheduled the
			// transient error; poll until it clears.
			a.errMsg = a.workflow.Camera().TransientError()
			return a, tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return errTickMsg{} })
		}
		a.speaker.Speak("Câmera ativa")
		return a, nil

	case errTickMsg:
		a.errMsg = a.workflow.Camera().TransientError()
		if a.errMsg != "" {
			return a, tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return errTickMsg{} })
		}
		return a, nil

	case describedMsg:
		if msg.err != nil {
			a.screen = screenCamera
			a.errMsg = "Não foi possível gerar a descrição."
			return a, tea.Tick(media.DefaultErrorWindow, func(time.Time) tea.Msg { return errTickMsg{} })
		}
		a.screen = screenReview
		a.nameInput.Focus()
		if d := a.workflow.Description(); d != nil {
			a.speaker.Speak(d.Description)
		}
		return a, textinput.Blink

	case savedMsg:
		// Either way the review modal is done; back to the camera screen so
		// the next item can be captured.
		a.notice = a.workflow.Notice()
		if a.notice == "" {
			a.notice = "Roupa salva."
		}
		a.speaker.Speak(a.notice)
		a.screen = screenCamera
		a.nameInput.SetValue("")
		a.nameInput.Blur()
		return a, tea.Tick(media.DefaultErrorWindow, func(time.Time) tea.Msg { return noticeTickMsg{} })

	case noticeTickMsg:
		a.notice = ""
		return a, nil

	case suggestedMsg:
		switch {
		case errors.Is(msg.err, suggest.ErrNoSuggestions):
			a.screen = screenSuggestionEmpty
			a.speaker.Speak("Nenhuma sugestão encontrada")
		case msg.err != nil:
			a.screen = screenReview
			a.errMsg = "Não foi possível gerar a sugestão."
		default:
			a.screen = screenSuggestions
			if s := a.workflow.Suggestions(); len(s) > 0 {
				a.speaker.Speak(s[0].Title)
			}
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, a.updateInputs(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.screen {
	case screenCamera:
		switch msg.String() {
		case "q", "esc":
			return a, tea.Quit
		case "f":
			a.facing = media.FacingFront
			return a, a.startCameraCmd()
		case "t":
			a.facing = media.FacingBack
			return a, a.startCameraCmd()
		case "g":
			a.screen = screenFilePrompt
			a.fileInput.Focus()
			return a, textinput.Blink
		case " ", "enter":
			if a.workflow.State() == capture.StateCameraActive {
				a.screen = screenLoading
				a.loadingText = "Gerando descrição..."
				return a, tea.Batch(a.spin.Tick, a.captureCmd())
			}
		case "p":
			a.workflow.StopCamera()
			return a, nil
		}

	case screenFilePrompt:
		switch msg.Type {
		case tea.KeyEsc:
			a.screen = screenCamera
			a.fileInput.Blur()
			return a, nil
		case tea.KeyEnter:
			path := strings.TrimSpace(a.fileInput.Value())
			if path == "" {
				return a, nil
			}
			a.screen = screenLoading
			a.loadingText = "Gerando descrição..."
			return a, tea.Batch(a.spin.Tick, a.describeFileCmd(path))
		}

	case screenReview:
		switch msg.Type {
		case tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			a.screen = screenLoading
			a.loadingText = "Salvando..."
			return a, tea.Batch(a.spin.Tick, a.saveCmd(strings.TrimSpace(a.nameInput.Value())))
		case tea.KeyCtrlG:
			a.screen = screenLoading
			a.loadingText = "Buscando sugestões..."
			return a, tea.Batch(a.spin.Tick, a.suggestCmd())
		}

	case screenSuggestions, screenSuggestionEmpty:
		switch msg.String() {
		case "b", "esc":
			a.workflow.Back()
			a.screen = screenReview
			return a, nil
		case "q":
			return a, tea.Quit
		}
	}

	return a, a.updateInputs(msg)
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if a.screen == screenReview {
		a.nameInput, cmd = a.nameInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.screen == screenFilePrompt {
		a.fileInput, cmd = a.fileInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) startCameraCmd() tea.Cmd {
	facing := a.facing
	return func() tea.Msg {
		err := a.workflow.StartCamera(context.Background(), facing)
		return cameraStartedMsg{err: err}
	}
}

func (a *App) captureCmd() tea.Cmd {
	return func() tea.Msg {
		err := a.workflow.CaptureAndDescribe(context.Background())
		return describedMsg{err: err}
	}
}

func (a *App) describeFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		err := a.workflow.DescribeFile(context.Background(), path)
		return describedMsg{err: err}
	}
}

func (a *App) saveCmd(name string) tea.Cmd {
	return func() tea.Msg {
		a.workflow.Save(context.Background(), name)
		return savedMsg{}
	}
}

func (a *App) suggestCmd() tea.Cmd {
	return func() tea.Msg {
		err := a.workflow.Suggest(context.Background(), "")
		return suggestedMsg{err: err}
	}
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BlindStyle"))
	b.WriteString("\n\n")

	switch a.screen {
	case screenCamera:
		b.WriteString(a.viewCamera())
	case screenFilePrompt:
		b.WriteString(labelStyle.Render("Arquivo de imagem:"))
		b.WriteString("\n" + a.fileInput.View() + "\n")
		b.WriteString(helpStyle.Render("enter confirma · esc volta"))
	case screenLoading:
		b.WriteString(a.spin.View() + " " + a.loadingText)
	case screenReview:
		b.WriteString(a.viewReview())
	case screenSuggestions:
		b.WriteString(a.viewSuggestions())
	case screenSuggestionEmpty:
		b.WriteString("Nenhuma sugestão encontrada.\n\n")
		b.WriteString(helpStyle.Render("b volta para a revisão · q sai"))
	}

	if a.errMsg != "" {
		b.WriteString("\n\n" + errorStyle.Render(a.errMsg))
	}
	if a.notice != "" {
		b.WriteString("\n\n" + noticeStyle.Render(a.notice))
	}
	b.WriteString("\n")
	return b.String()
}

func (a *App) viewCamera() string {
	var b strings.Builder
	state := a.workflow.State()
	if state == capture.StateCameraActive {
		b.WriteString("Câmera ativa.\n\n")
		b.WriteString(helpStyle.Render("espaço tira a foto · p para a câmera · q sai"))
	} else {
		b.WriteString("Tire uma foto da roupa ou escolha uma imagem.\n\n")
		b.WriteString(helpStyle.Render("f câmera frontal · t câmera traseira · g galeria · q sai"))
	}
	return b.String()
}

func (a *App) viewReview() string {
	d := a.workflow.Description()
	if d == nil {
		return "Sem descrição."
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Descrição: "))
	b.WriteString(d.Description + "\n")
	if f := d.Features; f != nil {
		b.WriteString(fmt.Sprintf("Categoria: %s · Tipo: %s · Cor: %s\n", f.Category, f.ItemType, f.PrimaryColor))
		b.WriteString(fmt.Sprintf("Uso: %s · Textura: %s · Estampa: %s\n", f.Usage, f.Texture, f.PrintCategory))
	}
	b.WriteString("\n" + labelStyle.Render("Nome da roupa:") + "\n")
	b.WriteString(a.nameInput.View() + "\n\n")
	b.WriteString(helpStyle.Render("enter salva · ctrl+g sugestão · esc sai"))
	return b.String()
}

func (a *App) viewSuggestions() string {
	var b strings.Builder
	for _, s := range a.workflow.Suggestions() {
		b.WriteString(titleStyle.Render(s.Title) + "\n")
		for _, piece := range s.Outfit.Pieces {
			b.WriteString("  - " + piece.Description + "\n")
		}
		b.WriteString(fmt.Sprintf("  probabilidade: %.0f%%\n\n", s.Outfit.Probability*100))
	}
	b.WriteString(helpStyle.Render("b volta para a revisão · q sai"))
	return b.String()
}
