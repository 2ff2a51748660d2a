package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-logr/logr/testr"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// fakeDevice records every command and answers from canned responses.
type fakeDevice struct {
	limits    types.Limits
	sent      []string
	responses map[string]string
	failOn    string // command prefix that fails with a transport error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{limits: types.DefaultLimits(), responses: map[string]string{}}
}

func (d *fakeDevice) String() string       { return "fake (test)" }
func (d *fakeDevice) Id() string           { return "fake" }
func (d *fakeDevice) Limits() types.Limits { return d.limits }

func (d *fakeDevice) CallE(ctx context.Context, via types.Channel, cmd string) (string, error) {
	if d.failOn != "" && strings.HasPrefix(cmd, d.failOn) {
		return "", fmt.Errorf("connection refused")
	}
	d.sent = append(d.sent, cmd)
	if res, ok := d.responses[cmd]; ok {
		return res, nil
	}
	return "{}", nil
}

func TestApplyOneShotSequence(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()

	_, err := Apply(context.Background(), log, types.ChannelHttp, d, oneShotIntent(), 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Rule1 ON Status#Time=-09-05T18:30 DO Backlog Power1 1; Delay 300; Power1 0 ENDON",
		"Rule1 1",
		"Rule2 ON Time#Minute=1110 DO Status 0 ENDON",
		"Rule2 1",
	}
	if len(d.sent) != len(want) {
		t.Fatalf("sent %d commands %v, want %d", len(d.sent), d.sent, len(want))
	}
	for i, cmd := range want {
		if d.sent[i] != cmd {
			t.Errorf("command %d = %q, want %q", i, d.sent[i], cmd)
		}
	}
}

func TestApplyRelativePulseArmsTimer(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()

	intent := Intent{
		Kind:              KindRelativePulse,
		Output:            1,
		On:                true,
		StartDelaySeconds: intp(30),
		PulseSeconds:      intp(5),
	}
	_, err := Apply(context.Background(), log, types.ChannelHttp, d, intent, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Rule2 ON Rules#Timer=1 DO Backlog Power1 1; Delay 50; Power1 0 ENDON",
		"Rule2 1",
		"RuleTimer1 30",
	}
	if len(d.sent) != len(want) {
		t.Fatalf("sent %v, want %v", d.sent, want)
	}
	for i, cmd := range want {
		if d.sent[i] != cmd {
			t.Errorf("command %d = %q, want %q", i, d.sent[i], cmd)
		}
	}
}

func TestApplyAbortsOnTransportError(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()
	d.failOn = "Rule2" // the auxiliary write

	_, err := Apply(context.Background(), log, types.ChannelHttp, d, oneShotIntent(), 1, 0)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	// The primary write and enable went through; nothing after the failed
	// auxiliary write was attempted. No rollback.
	if len(d.sent) != 2 {
		t.Errorf("sent %v, want only the two primary commands", d.sent)
	}
}

func TestApplyValidatesBeforeSending(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()

	intent := oneShotIntent()
	intent.When = nil
	if _, err := Apply(context.Background(), log, types.ChannelHttp, d, intent, 1, 0); !errors.Is(err, types.ErrMissingField) {
		t.Fatalf("Apply = %v, want ErrMissingField", err)
	}
	if len(d.sent) != 0 {
		t.Errorf("invalid intent reached the device: %v", d.sent)
	}
}

func TestRead(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()
	d.responses["Rule1"] = `{"Rule1":{"State":"ON","Once":"OFF","StopOnError":"OFF","Length":47,"Free":464,"Rules":"ON Rules#Timer=1 DO Backlog Power1 1; Delay 50; Power1 0 ENDON"}}`

	slot, err := Read(context.Background(), log, types.ChannelHttp, d, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !slot.Enabled || slot.Once || slot.Length != 47 || slot.Free != 464 {
		t.Errorf("slot = %+v", slot)
	}
	if !strings.Contains(slot.Script, "Rules#Timer=1") {
		t.Errorf("script = %q", slot.Script)
	}
}

func TestReadOutOfRange(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()
	if _, err := Read(context.Background(), log, types.ChannelHttp, d, 4); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("Read = %v, want ErrOutOfRange", err)
	}
}

func TestReadIntent(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()
	d.responses["Rule2"] = `{"Rule2":{"State":"OFF","Once":"OFF","StopOnError":"OFF","Length":10,"Free":501,"Rules":"ON Rules#Timer=3 DO Backlog Power2 1; Delay 600; Power2 0 ENDON"}}`

	intent, slot, err := ReadIntent(context.Background(), log, types.ChannelHttp, d, 2)
	if err != nil {
		t.Fatal(err)
	}
	if slot.Enabled {
		t.Error("slot reported enabled")
	}
	if intent.Kind != KindRelativePulse || intent.Output != 2 {
		t.Errorf("intent = %+v", intent)
	}
	if intent.PulseSeconds == nil || *intent.PulseSeconds != 60 {
		t.Errorf("pulse = %v, want 60", intent.PulseSeconds)
	}
}

func TestClear(t *testing.T) {
	log := testr.New(t)
	d := newFakeDevice()
	if err := Clear(context.Background(), log, types.ChannelHttp, d, 3); err != nil {
		t.Fatal(err)
	}
	want := []string{"Rule3 0", `Rule3 "`}
	if len(d.sent) != 2 || d.sent[0] != want[0] || d.sent[1] != want[1] {
		t.Errorf("sent %v, want %v", d.sent, want)
	}
}
