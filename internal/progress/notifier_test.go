package progress_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentscreen/interview-api/internal/progress"
)

var _ = Describe("notifier", func() {
	It("delivers events to the bound sink in emission order", func() {
		registry := progress.NewRegistry()
		notifier := progress.NewNotifier(registry)
		sink := &recordingSink{}
		registry.Bind(7, sink)

		notifier.Notify(7, progress.NewProgressEvent(7, 25, "downloading"))
		notifier.Notify(7, progress.NewProgressEvent(7, 50, "downloading"))
		notifier.Notify(7, progress.NewCompletedEvent(7, "done"))

		events := sink.Events()
		Expect(events).To(HaveLen(3))
		Expect(*events[0].Progress).To(Equal(25))
		Expect(*events[1].Progress).To(Equal(50))
		Expect(events[2].Status).To(Equal(progress.StatusCompleted))
	})

	It("silently drops events when nobody is bound", func() {
		registry := progress.NewRegistry()
		notifier := progress.NewNotifier(registry)

		Expect(func() {
			notifier.Notify(7, progress.NewProgressEvent(7, 50, "downloading"))
		}).NotTo(Panic())
	})

	It("swallows delivery failures", func() {
		registry := progress.NewRegistry()
		notifier := progress.NewNotifier(registry)
		sink := &recordingSink{err: errors.New("connection gone")}
		registry.Bind(7, sink)

		Expect(func() {
			notifier.Notify(7, progress.NewCompletedEvent(7, "done"))
		}).NotTo(Panic())
	})

	It("does not deliver to a sink bound to another interview", func() {
		registry := progress.NewRegistry()
		notifier := progress.NewNotifier(registry)
		sink := &recordingSink{}
		registry.Bind(8, sink)

		notifier.Notify(7, progress.NewCompletedEvent(7, "done"))
		Expect(sink.Events()).To(BeEmpty())
	})
})
