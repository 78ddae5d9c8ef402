// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockWorker struct {
	runs int
	log  *[]string
	name string
}

func (m *mockWorker) Run() {
	m.runs++
	if m.log != nil {
		*m.log = append(*m.log, "run:"+m.name)
	}
}

type mockStoppableWorker struct {
	mockWorker
	stops int
}

func (m *mockStoppableWorker) Stop() {
	m.stops++
	if m.log != nil {
		*m.log = append(*m.log, "stop:"+m.name)
	}
}

func TestWorkers_RunAll(t *testing.T) {
	first := &mockWorker{}
	second := &mockWorker{}

	NewWorkers(first, second).Run()

	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
}

func TestWorkers_RunOrder(t *testing.T) {
	var log []string
	a := &mockWorker{name: "a", log: &log}
	b := &mockWorker{name: "b", log: &log}

	NewWorkers(a, b).Run()

	assert.Equal(t, []string{"run:a", "run:b"}, log)
}

func TestWorkers_StopReverseOrder(t *testing.T) {
	var log []string
	a := &mockStoppableWorker{mockWorker: mockWorker{name: "a", log: &log}}
	b := &mockStoppableWorker{mockWorker: mockWorker{name: "b", log: &log}}

	w := NewWorkers(a, b)
	w.Run()
	w.Stop()

	assert.Equal(t, []string{"run:a", "run:b", "stop:b", "stop:a"}, log)
	assert.Equal(t, 1, a.stops)
	assert.Equal(t, 1, b.stops)
}

func TestWorkers_StopSkipsPlainWorkers(t *testing.T) {
	plain := &mockWorker{}
	stoppable := &mockStoppableWorker{}

	w := NewWorkers(plain, stoppable)
	w.Run()
	w.Stop()

	assert.Equal(t, 1, stoppable.stops)
}

func TestWorkers_EmptyIsSafe(t *testing.T) {
	w := NewWorkers()
	assert.NotPanics(t, func() {
		w.Run()
		w.Stop()
	})
}
