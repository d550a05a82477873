// Package mocks provides mock implementations for testing.
package mocks

// RunCall records the parameters of a Run or Output invocation.
type RunCall struct {
	Name string
	Args []string
	Dir  string
}

// MockRunner implements ports.CommandRunner for testing.
type MockRunner struct {
	// RunCalls records calls to Run in order.
	RunCalls []RunCall
	// OutputCalls records calls to Output in order.
	OutputCalls []RunCall
	// Outputs maps command names to canned standard output.
	Outputs map[string]string
	// Errors maps command names to errors (for simulating failures).
	Errors map[string]error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run records the call and returns any configured error for the command.
func (m *MockRunner) Run(name string, args []string, dir string) error {
	m.RunCalls = append(m.RunCalls, RunCall{Name: name, Args: args, Dir: dir})
	if err, ok := m.Errors[name]; ok {
		return err
	}
	return nil
}

// Output records the call and returns the canned output for the command.
func (m *MockRunner) Output(name string, args []string, dir string) (string, error) {
	m.OutputCalls = append(m.OutputCalls, RunCall{Name: name, Args: args, Dir: dir})
	if err, ok := m.Errors[name]; ok {
		return "", err
	}
	return m.Outputs[name], nil
}

// Calls returns every recorded invocation, Run calls first.
func (m *MockRunner) Calls() []RunCall {
	calls := append([]RunCall{}, m.RunCalls...)
	return append(calls, m.OutputCalls...)
}
