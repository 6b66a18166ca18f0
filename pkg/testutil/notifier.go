package testutil

import "context"

// MockNotifier records every event it is handed.
type MockNotifier struct {
	Events []any
}

func (m *MockNotifier) Notify(ctx context.Context, event any) {
	m.Events = append(m.Events, event)
}
