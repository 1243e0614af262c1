package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
)

const (
	headerHeight = 3
	statusHeight = 1
)

const (
	dashboardTitle = "Дашборд"
	loadingText    = "Загрузка данных..."
	errorText      = "Ошибка при загрузке данных дашборда"
	noItemsText    = "Дашборды пока не настроены"
	retryHint      = "Нажмите r, чтобы повторить"
	refreshingText = "Обновление..."
	staleFormat    = "02.01.2006 15:04"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.state == StateHelp:
		body = m.renderHelp()
	case m.state == StateJump:
		body = m.jump.View()
	case m.board.State() == dashboard.BoardLoading:
		body = m.renderLoading()
	case m.board.State() == dashboard.BoardError:
		body = m.renderError()
	case len(m.board.Tables()) == 0:
		body = m.center(m.theme.Placeholder.Render(noItemsText))
	default:
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatusBar())
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(dashboardTitle)
	payload := m.board.Payload()
	if payload != nil && payload.UserName != "" {
		title += m.theme.Subtitle.Render(" · " + payload.UserName)
	}

	f := m.board.Filters()
	filters := m.theme.Subtitle.Render(fmt.Sprintf("Период: %s · Заказы: %s", f.Period.Label(), f.OrderStatus.Label()))
	if payload != nil && payload.Stale {
		filters += "  " + m.theme.StatusWarning.Render("офлайн-снимок от "+payload.FetchedAt.Local().Format(staleFormat))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, filters, "")
}

func (m Model) renderLoading() string {
	return m.center(m.spinner.View() + " " + m.theme.Normal.Render(loadingText))
}

func (m Model) renderError() string {
	lines := []string{m.theme.ErrorBanner.Render(errorText)}
	if detail := common.UserMessage(m.board.Err(), ""); detail != "" {
		lines = append(lines, m.theme.Normal.Render(detail))
	}
	lines = append(lines, "", m.theme.Subtitle.Render(retryHint))
	return m.center(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m Model) renderHelp() string {
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Клавиши"),
		"",
		m.help.FullHelpView(m.keymap.FullHelp()),
	))
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.board.Fetching() && m.board.State() != dashboard.BoardLoading:
		status = m.spinner.View() + " " + m.theme.StatusInfo.Render(refreshingText)
	case m.board.Err() != nil && m.board.State() == dashboard.BoardReady:
		status = m.theme.StatusError.Render("Не удалось обновить: " + common.UserMessage(m.board.Err(), "нет связи с сервером"))
	}

	keys := m.help.ShortHelpView(m.keymap.ShortHelp())
	if status == "" {
		return keys
	}
	return status + "  " + keys
}

func (m Model) center(content string) string {
	return lipgloss.Place(m.width, bodyHeight(m.height), lipgloss.Center, lipgloss.Center, content)
}
