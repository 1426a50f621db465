package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/shelfdesk/internal/session"
	"github.com/naveenspark/shelfdesk/pkg/client"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	numLoginFields
)

type loginMode int

const (
	modeSignIn loginMode = iota
	modeForgot
)

// loginResultMsg carries the outcome of a sign-in attempt.
type loginResultMsg struct {
	session session.Session
	err     error
}

// forgotResultMsg carries the outcome of a password reset request.
type forgotResultMsg struct {
	email string
	err   error
}

type loginModel struct {
	client    *client.Client
	session   *session.Manager
	mode      loginMode
	fields    [numLoginFields]string
	email     string
	focus     loginField
	statusMsg string
	isError   bool
	submitted bool
}

func newLoginModel(c *client.Client, m *session.Manager) loginModel {
	return loginModel{client: c, session: m}
}

// reset clears the form but keeps the username for convenience.
func (m loginModel) reset() loginModel {
	n := newLoginModel(m.client, m.session)
	n.fields[fieldUsername] = m.fields[fieldUsername]
	if n.fields[fieldUsername] != "" {
		n.focus = fieldPassword
	}
	return n
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = client.Message(msg.err)
			m.isError = true
			m.fields[fieldPassword] = ""
			return m, nil
		}
		m = m.reset()
		return m, nil

	case forgotResultMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = client.Message(msg.err)
			m.isError = true
			return m, nil
		}
		m.mode = modeSignIn
		m.statusMsg = "if " + msg.email + " is registered, a reset link is on its way"
		m.isError = false
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.statusMsg = ""
	m.isError = false

	if m.mode == modeForgot {
		switch msg.String() {
		case "ctrl+f":
			m.mode = modeSignIn
		case "enter":
			return m.submitForgot()
		default:
			m.email = editRune(m.email, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+f":
		m.mode = modeForgot
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == fieldUsername {
			m.focus = fieldPassword
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := m.fields[fieldUsername]
	password := m.fields[fieldPassword]
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		m.statusMsg = "username and password are required"
		m.isError = true
		return m, nil
	}

	m.submitted = true
	c, mgr := m.client, m.session
	return m, func() tea.Msg {
		s, err := mgr.Login(context.Background(), c, username, password)
		return loginResultMsg{session: s, err: err}
	}
}

func (m loginModel) submitForgot() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.email)
	if email == "" {
		m.statusMsg = "email is required"
		m.isError = true
		return m, nil
	}

	m.submitted = true
	c := m.client
	return m, func() tea.Msg {
		return forgotResultMsg{email: email, err: c.ForgotPassword(context.Background(), email)}
	}
}

func (m loginModel) helpKeys() string {
	if m.mode == modeForgot {
		return helpBar("enter", "send link", "ctrl+f", "back", "esc", "nav")
	}
	return helpBar("tab", "next", "enter", "sign in", "ctrl+f", "forgot password", "esc", "nav")
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in") + "\n\n")

	if m.mode == modeForgot {
		b.WriteString(dimStyle.Render("We will email you a link to choose a new password.") + "\n\n")
		b.WriteString(renderInput("email", m.email, "you@example.com", true) + "\n")
	} else {
		b.WriteString(renderInput("username", m.fields[fieldUsername], "username", m.focus == fieldUsername) + "\n")
		b.WriteString(renderInput("password", maskSecret(m.fields[fieldPassword]), "password", m.focus == fieldPassword) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(dimStyle.Render("contacting the server..."))
	case m.statusMsg != "" && m.isError:
		b.WriteString(errorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(okStyle.Render(m.statusMsg))
	}
	return b.String()
}
