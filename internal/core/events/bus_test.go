package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/frahmantamala/company-directory/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		rec *recorder
	)

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		rec = &recorder{}
	})

	It("should deliver asynchronously to subscribers of the type", func() {
		bus.Subscribe(events.EventTypeUserCreated, rec.handle)

		Expect(bus.Publish(context.Background(), events.NewDirectoryEvent(events.EventTypeUserCreated, 1, 2, nil))).To(Succeed())
		Expect(bus.Publish(context.Background(), events.NewDirectoryEvent(events.EventTypeUserDeleted, 1, 2, nil))).To(Succeed())

		Eventually(rec.count).Should(Equal(1))
		Consistently(rec.count).Should(Equal(1))
	})

	It("should keep delivering after the publishing context is cancelled", func() {
		bus.Subscribe(events.EventTypeSessionOpened, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return rec.handle(ctx, e)
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewDirectoryEvent(events.EventTypeSessionOpened, 1, 1, nil))).To(Succeed())
		Eventually(rec.count).Should(Equal(1))
	})

	It("should stop at the first failing handler when synchronous", func() {
		bus.Subscribe(events.EventTypeAdminAdded, func(ctx context.Context, e events.Event) error {
			return errors.New("nope")
		})
		bus.Subscribe(events.EventTypeAdminAdded, rec.handle)

		err := bus.PublishSync(context.Background(), events.NewDirectoryEvent(events.EventTypeAdminAdded, 1, 1, nil))
		Expect(err).To(MatchError(ContainSubstring("admin.added")))
		Expect(rec.count()).To(BeZero())
	})

	It("should subscribe one handler to many types", func() {
		bus.SubscribeAll(events.DirectoryEventTypes, rec.handle)
		for _, t := range events.DirectoryEventTypes {
			Expect(bus.PublishSync(context.Background(), events.NewDirectoryEvent(t, 1, 1, nil))).To(Succeed())
		}
		Expect(rec.count()).To(Equal(len(events.DirectoryEventTypes)))
	})

	It("should tolerate a missing publisher", func() {
		Expect(func() {
			events.Emit(context.Background(), nil, nil, events.NewDirectoryEvent(events.EventTypeUserCreated, 0, 1, nil))
		}).NotTo(Panic())
	})
})

var _ = Describe("NewDirectoryEvent", func() {
	It("should carry actor and entity in the payload", func() {
		e := events.NewDirectoryEvent(events.EventTypeAssignmentAssigned, 3, 4, map[string]interface{}{"department_id": int64(5)})
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.Payload()).To(HaveKeyWithValue("actor_id", int64(3)))
		Expect(e.Payload()).To(HaveKeyWithValue("entity_id", int64(4)))
		Expect(e.Payload()).To(HaveKeyWithValue("department_id", int64(5)))
	})
})
