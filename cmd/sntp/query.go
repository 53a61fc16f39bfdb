package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	"github.com/AndrewLester/sntp/internal/ui"
	"github.com/AndrewLester/sntp/pkg/sntp"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type queryCommandModel struct {
	spinner spinner.Model
	client  *sntp.Client
	verify  bool
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	result       *sntp.QueryResult
	verification *sntp.Verification
	local        time.Time
	err          error
}

type ntpQueryMessage struct {
	result       *sntp.QueryResult
	verification *sntp.Verification
	local        time.Time
}
type ntpQueryError error

func newQueryCommandModel(client *sntp.Client, verify bool, timeout time.Duration) queryCommandModel {
	ctx, cancel := context.WithCancel(context.Background())
	return queryCommandModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.Spinner)),
		client:  client,
		verify:  verify,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func ntpQueryCommand(m queryCommandModel) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Query(m.ctx)
		if err != nil {
			return ntpQueryError(err)
		}
		local := ntp.TimestampToTime(ntp.GetSystemTime())

		var verification *sntp.Verification
		if m.verify {
			verification, err = sntp.Verify(result, m.timeout)
			if err != nil {
				return ntpQueryError(fmt.Errorf("verify: %w", err))
			}
		}
		return ntpQueryMessage{result: result, verification: verification, local: local}
	}
}

func (m queryCommandModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ntpQueryCommand(m))
}

func (m queryCommandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			m.err = context.Canceled
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ntpQueryMessage:
		m.result = msg.result
		m.verification = msg.verification
		m.local = msg.local
		m.cancel()
		return m, tea.Quit
	case ntpQueryError:
		m.err = msg
		m.cancel()
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m queryCommandModel) View() (s string) {
	if m.err != nil {
		return
	}

	if m.result == nil {
		s += ui.Title("SNTP - Query") + "\n\n"
		s += m.spinner.View() + " " + m.client.Address() + "\n\n"
		s += ui.Help("q: exit") + "\n"
		return
	}

	s += "Time: " + ui.Value(m.result.Time.Format(sntp.TimeFormat)) + "\n"
	s += ui.Help(fmt.Sprintf("stratum %d, local clock %s", m.result.Stratum, m.local.Format(sntp.TimeFormat))) + "\n"
	if m.verification != nil {
		s += ui.Help(fmt.Sprintf("beevik/ntp %s, skew %v", m.verification.ReferenceTime.UTC().Format(sntp.TimeFormat), m.verification.Skew)) + "\n"
	}
	return
}

func (m queryCommandModel) GetError() error {
	return m.err
}
