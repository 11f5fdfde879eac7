// README: Persistence and sync bridge; one Redis key is the durable slot, one channel the change signal.
package bridge

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fleetbook/internal/modules/state"
)

// Client is the slice of the redis surface the bridge touches. *redis.Client
// satisfies it; tests substitute a canned slot.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Bridge makes the store's state durable in a single key and rebroadcasts
// every write to sibling instances over pub/sub. Consistency across
// instances is last-write-wins on the slot; the booking workflow's
// re-read-before-dispatch narrows, but cannot close, the race between two
// instances selling the same seat. Closing it would take a single-writer
// sequence point this design deliberately does not have.
type Bridge struct {
	rdb      Client
	key      string
	channel  string
	instance string
}

// envelope wraps the slot's JSON state with the writer's instance id so a
// subscriber can drop its own publications.
type envelope struct {
	Origin string      `json:"origin"`
	State  state.State `json:"state"`
}

func New(rdb Client, key, channel string) *Bridge {
	return &Bridge{rdb: rdb, key: key, channel: channel, instance: uuid.NewString()}
}

// Save serializes the full state into the slot and publishes the change
// envelope. Called by the store after every successful mutation.
func (b *Bridge) Save(ctx context.Context, st state.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := b.rdb.Set(ctx, b.key, raw, 0).Err(); err != nil {
		return err
	}
	env, err := json.Marshal(envelope{Origin: b.instance, State: st})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, env).Err()
}

// Load reads the slot. A missing slot yields the seed state; a corrupt or
// structurally invalid value is logged, the slot is cleared, and the seed
// state is returned. Never fatal.
func (b *Bridge) Load(ctx context.Context) (state.State, error) {
	raw, err := b.rdb.Get(ctx, b.key).Bytes()
	if err == redis.Nil {
		return state.DefaultState(), nil
	}
	if err != nil {
		return state.State{}, err
	}
	st, err := decodeState(raw)
	if err != nil {
		log.Printf("bridge: discarding corrupt slot %s: %v", b.key, err)
		if err := b.rdb.Del(ctx, b.key).Err(); err != nil {
			log.Printf("bridge: clear slot: %v", err)
		}
		return state.DefaultState(), nil
	}
	return st, nil
}

// decodeState parses a slot value and applies the structural sanity check:
// a valid snapshot always carries the seeded admins array.
func decodeState(raw []byte) (state.State, error) {
	var st state.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return state.State{}, err
	}
	if len(st.Admins) == 0 {
		return state.State{}, errMissingMarker
	}
	return st, nil
}

var errMissingMarker = jsonError("snapshot missing admins marker")

type jsonError string

func (e jsonError) Error() string { return string(e) }

// Syncer adopts a state written elsewhere; satisfied by the store.
type Syncer interface {
	ApplySync(st state.State)
}

// Run subscribes to the change channel and feeds every sibling write into
// the store as a replace-state, keeping instances from silently diverging.
// Blocks until the context is cancelled.
func (b *Bridge) Run(ctx context.Context, sink Syncer) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("bridge: dropping malformed change signal: %v", err)
				continue
			}
			if env.Origin == b.instance {
				continue
			}
			if len(env.State.Admins) == 0 {
				log.Printf("bridge: dropping change signal without admins marker")
				continue
			}
			sink.ApplySync(env.State)
		}
	}
}
