package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// lockerItem adapts a locker for the list widget.
type lockerItem struct {
	locker model.Locker
}

func (i lockerItem) Title() string {
	title := fmt.Sprintf("Locker %d — %s", i.locker.LockerNumber, i.locker.Status)
	if i.locker.Inconsistency != "" {
		title += " " + warnStyle.Render("["+i.locker.Inconsistency+"]")
	}
	return title
}

func (i lockerItem) Description() string {
	a := i.locker.ActiveAssignment
	if a == nil {
		return "no active assignment"
	}
	return fmt.Sprintf("held by %s (%s) since %s, %d item(s)",
		a.StudentName, a.StudentID, a.AssignedAt.Format("2006-01-02 15:04"), len(a.Items))
}

func (i lockerItem) FilterValue() string {
	return fmt.Sprintf("%d %s", i.locker.LockerNumber, i.locker.Status)
}

// Messages produced by async API calls.
type lockersMsg struct {
	lockers []model.Locker
}

type actionDoneMsg struct {
	note string
}

type errMsg struct {
	err error
}

// appModel holds all console state.
type appModel struct {
	client    *client
	list      list.Model
	statusMsg string
	err       error
}

func newModel(c *client) appModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Lockers"
	l.SetShowStatusBar(false)

	return appModel{
		client:    c,
		list:      l,
		statusMsg: "loading lockers...",
	}
}

func (m appModel) Init() tea.Cmd {
	return m.fetchLockers()
}

func (m appModel) fetchLockers() tea.Cmd {
	return func() tea.Msg {
		lockers, err := m.client.listLockers()
		if err != nil {
			return errMsg{err}
		}
		return lockersMsg{lockers}
	}
}

func (m appModel) selectedLocker() (model.Locker, bool) {
	item, ok := m.list.SelectedItem().(lockerItem)
	if !ok {
		return model.Locker{}, false
	}
	return item.locker, true
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case lockersMsg:
		items := make([]list.Item, len(msg.lockers))
		for i, l := range msg.lockers {
			items[i] = lockerItem{locker: l}
		}
		m.err = nil
		m.statusMsg = fmt.Sprintf("%d lockers", len(msg.lockers))
		return m, m.list.SetItems(items)

	case actionDoneMsg:
		m.err = nil
		m.statusMsg = msg.note
		return m, m.fetchLockers()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		// Don't intercept keys while the list filter is capturing input.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "r":
			m.statusMsg = "refreshing..."
			return m, m.fetchLockers()

		case "f":
			locker, ok := m.selectedLocker()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				if err := m.client.forceRelease(locker.ID); err != nil {
					return errMsg{err}
				}
				return actionDoneMsg{fmt.Sprintf("locker %d force released", locker.LockerNumber)}
			}

		case "m":
			locker, ok := m.selectedLocker()
			if !ok {
				return m, nil
			}
			target := model.LockerStatusMaintenance
			if locker.Status == model.LockerStatusMaintenance {
				target = model.LockerStatusAvailable
			}
			return m, func() tea.Msg {
				if err := m.client.setStatus(locker.ID, target); err != nil {
					return errMsg{err}
				}
				return actionDoneMsg{fmt.Sprintf("locker %d set to %s", locker.LockerNumber, target)}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	statusLine := statusStyle.Render(m.statusMsg + "  (r refresh · f release · m maintenance · q quit)")
	if m.err != nil {
		statusLine = errorStyle.Render("error: " + m.err.Error())
	}
	return m.list.View() + "\n" + statusLine
}
