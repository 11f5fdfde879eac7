// README: Bridge tests for slot decoding and the structural sanity check.
package bridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetbook/internal/modules/state"
)

// fakeSlot is an in-memory stand-in for the single-key redis surface.
type fakeSlot struct {
	val       string
	has       bool
	dels      int
	published []string
}

func (f *fakeSlot) Get(_ context.Context, _ string) *redis.StringCmd {
	if !f.has {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(f.val, nil)
}

func (f *fakeSlot) Set(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.val = string(v)
	case string:
		f.val = v
	}
	f.has = true
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeSlot) Del(_ context.Context, _ ...string) *redis.IntCmd {
	f.val = ""
	f.has = false
	f.dels++
	return redis.NewIntResult(1, nil)
}

func (f *fakeSlot) Publish(_ context.Context, _ string, message interface{}) *redis.IntCmd {
	if b, ok := message.([]byte); ok {
		f.published = append(f.published, string(b))
	}
	return redis.NewIntResult(1, nil)
}

func (f *fakeSlot) Subscribe(_ context.Context, _ ...string) *redis.PubSub {
	return nil
}

func TestLoadMissingSlotYieldsSeed(t *testing.T) {
	b := New(&fakeSlot{}, "slot", "changed")
	st, err := b.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Admins) == 0 || len(st.Locations) == 0 {
		t.Errorf("empty slot did not yield the seed state: %+v", st)
	}
}

func TestLoadCorruptSlotClearedAndReseeded(t *testing.T) {
	cases := []struct {
		name string
		val  string
	}{
		{"not json", "{broken"},
		{"foreign blob without admins marker", `{"locations":[],"trips":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slot := &fakeSlot{val: tc.val, has: true}
			b := New(slot, "slot", "changed")
			st, err := b.Load(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(st.Admins) == 0 {
				t.Error("corrupt slot did not yield the seed state")
			}
			if slot.dels != 1 {
				t.Errorf("dels = %d, want the slot cleared once", slot.dels)
			}
			if slot.has {
				t.Error("corrupt value still in the slot")
			}
		})
	}
}

func TestSaveWritesSlotAndPublishes(t *testing.T) {
	slot := &fakeSlot{}
	b := New(slot, "slot", "changed")
	st := state.DefaultState()
	st.Customers = append(st.Customers, state.Customer{ID: 9, Name: "Pema"})

	if err := b.Save(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	stored, err := decodeState([]byte(slot.val))
	if err != nil {
		t.Fatalf("slot does not hold a valid snapshot: %v", err)
	}
	if len(stored.Customers) != 1 || stored.Customers[0].Name != "Pema" {
		t.Errorf("slot customers = %+v", stored.Customers)
	}

	if len(slot.published) != 1 {
		t.Fatalf("published = %d signals, want 1", len(slot.published))
	}
	var env envelope
	if err := json.Unmarshal([]byte(slot.published[0]), &env); err != nil {
		t.Fatal(err)
	}
	if env.Origin == "" {
		t.Error("change signal has no origin")
	}
	if len(env.State.Admins) == 0 {
		t.Error("change signal lost the admins marker")
	}

	// A second save round-trips through Load.
	loaded, err := b.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Customers) != 1 {
		t.Errorf("loaded customers = %d, want 1", len(loaded.Customers))
	}
}

func TestDecodeStateRoundTrip(t *testing.T) {
	st := state.DefaultState()
	st.Customers = append(st.Customers, state.Customer{ID: 500, Name: "Pema"})
	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}

	got, err := decodeState(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Customers) != 1 || got.Customers[0].Name != "Pema" {
		t.Errorf("customers = %+v", got.Customers)
	}
	if len(got.Locations) != len(st.Locations) {
		t.Errorf("locations = %d, want %d", len(got.Locations), len(st.Locations))
	}
}

func TestDecodeStateRejectsGarbage(t *testing.T) {
	if _, err := decodeState([]byte("{not json")); err == nil {
		t.Error("garbage accepted")
	}
}

// A parseable blob without the seeded admins array is some other writer's
// data, not ours; it must be treated as corrupt.
func TestDecodeStateRequiresAdminsMarker(t *testing.T) {
	if _, err := decodeState([]byte(`{"locations":[],"trips":[]}`)); err == nil {
		t.Error("snapshot without admins marker accepted")
	}
}

func TestEnvelopeCarriesSlotShape(t *testing.T) {
	env := envelope{Origin: "instance-a", State: state.DefaultState()}
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	var got envelope
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.Origin != "instance-a" {
		t.Errorf("origin = %q", got.Origin)
	}
	if len(got.State.Admins) == 0 {
		t.Error("state payload lost the admins marker")
	}
	if len(got.State.PickupPoints[state.DefaultPickupKey]) == 0 {
		t.Error("state payload lost the default pickup list")
	}
}
