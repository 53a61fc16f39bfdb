package sugar

import (
	tea "github.com/charmbracelet/bubbletea"
)

type ErrorModel interface {
	tea.Model
	GetError() error
}

// RunProgramWithErrors runs model and returns the error it finished with, if
// any. Bubble Tea's own errors take precedence.
func RunProgramWithErrors(model ErrorModel, options ...tea.ProgramOption) (tea.Model, error) {
	resultModel, teaErr := tea.NewProgram(model, options...).Run()
	if teaErr != nil {
		return resultModel, teaErr
	}

	if errorModel, ok := resultModel.(ErrorModel); ok {
		return resultModel, errorModel.GetError()
	}
	return resultModel, nil
}
