package service

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestShouldTriggerOperators(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name     string
		operator domain.AlertOperator
		value    float64
		want     bool
	}{
		{"gt above", domain.OperatorGreaterThan, 11, true},
		{"gt equal", domain.OperatorGreaterThan, 10, false},
		{"lt below", domain.OperatorLessThan, 9, true},
		{"lt equal", domain.OperatorLessThan, 10, false},
		{"eq match", domain.OperatorEquals, 10, true},
		{"eq miss", domain.OperatorEquals, 10.5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alert := domain.SmartAlert{Operator: tc.operator, Threshold: 10}
			if got := ShouldTrigger(alert, tc.value, now); got != tc.want {
				t.Fatalf("ShouldTrigger = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShouldTriggerCooldown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)
	alert := domain.SmartAlert{
		Operator:        domain.OperatorGreaterThan,
		Threshold:       5,
		CooldownMinutes: 30,
		LastTriggeredAt: &recent,
	}
	if ShouldTrigger(alert, 100, now) {
		t.Fatal("alert fired inside cooldown window")
	}

	expired := now.Add(-31 * time.Minute)
	alert.LastTriggeredAt = &expired
	if !ShouldTrigger(alert, 100, now) {
		t.Fatal("alert suppressed after cooldown expired")
	}
}

func TestShouldTriggerNoCooldownConfigured(t *testing.T) {
	now := time.Now()
	last := now.Add(-time.Second)
	alert := domain.SmartAlert{
		Operator:        domain.OperatorGreaterThan,
		Threshold:       1,
		LastTriggeredAt: &last,
	}
	if !ShouldTrigger(alert, 2, now) {
		t.Fatal("zero cooldown should never suppress")
	}
}
