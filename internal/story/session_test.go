package story_test

import (
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/splitflap/internal/config"
	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/sched"
	"github.com/san-kum/splitflap/internal/story"
	"github.com/san-kum/splitflap/internal/telemetry"
)

const ms = time.Millisecond

var _ = Describe("Session", func() {
	var (
		cfg         *config.Config
		clock       *sched.Scheduler
		session     *story.Session
		transitions []story.State
		feedEvents  []bool
	)

	build := func() {
		var err error
		clock = sched.New()
		session, err = story.New(cfg, clock, rand.New(rand.NewSource(7)), telemetry.Discard())
		Expect(err).NotTo(HaveOccurred())
		transitions = nil
		feedEvents = nil
		session.SetHooks(story.Hooks{
			OnTransition: func(_, to story.State) { transitions = append(transitions, to) },
			OnFeed:       func(visible bool) { feedEvents = append(feedEvents, visible) },
		})
	}

	advance := func(d time.Duration) { session.Advance(clock.Now() + d) }

	// open runs the sequence up to the body settling: the body starts at
	// 700ms and five letters over 100ms plus a 3ms lead-in settle by 803ms.
	open := func() {
		session.AssetsLoaded(nil)
		Expect(session.Open()).To(BeTrue())
		advance(900 * ms)
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Letter = config.LetterConfig{From: "a@b.c", Subject: "hi", Lines: []string{"He**llo**"}}
		cfg.Flap.DurationMS = 100
		cfg.Story.EnticeDelayMS = 1000
		build()
	})

	It("starts on the loading screen", func() {
		Expect(session.State()).To(Equal(story.Loading))
		Expect(session.Open()).To(BeFalse())
	})

	It("walks the reveal timeline step by step", func() {
		session.AssetsLoaded(nil)
		Expect(session.State()).To(Equal(story.Ready))

		Expect(session.Open()).To(BeTrue())
		Expect(session.State()).To(Equal(story.ModalShown))
		Expect(session.Expanding()).To(BeTrue())
		Expect(session.LetterVisible()).To(BeTrue())
		Expect(session.HeaderVisible()).To(BeFalse())

		advance(299 * ms)
		Expect(session.State()).To(Equal(story.ModalShown))
		advance(1 * ms)
		Expect(session.State()).To(Equal(story.HeaderShown))
		Expect(session.HeaderVisible()).To(BeTrue())

		advance(400 * ms)
		Expect(session.State()).To(Equal(story.BodyAnimating))
		Expect(session.Animating()).To(BeTrue())
		Expect(session.Expanding()).To(BeFalse())

		advance(102 * ms)
		Expect(session.State()).To(Equal(story.BodyAnimating))
		advance(1 * ms)
		Expect(session.State()).To(Equal(story.Complete))
		Expect(session.Run().State()).To(Equal(flap.RunDone))

		Expect(transitions).To(Equal([]story.State{
			story.Ready, story.ModalShown, story.HeaderShown, story.BodyAnimating, story.Complete,
		}))
	})

	It("reveals the continue control and then entices", func() {
		open()
		Expect(session.ContinueVisible()).To(BeFalse())

		advance(300 * ms)
		Expect(session.ContinueVisible()).To(BeTrue())
		Expect(session.Enticing()).To(BeFalse())

		advance(1000 * ms)
		Expect(session.Enticing()).To(BeTrue())
	})

	It("ignores continue while the body animates", func() {
		session.AssetsLoaded(nil)
		session.Open()
		advance(750 * ms)
		Expect(session.State()).To(Equal(story.BodyAnimating))
		Expect(session.Continue()).To(BeFalse())
	})

	It("dismisses the letter and opens the feed after the fade", func() {
		open()
		Expect(session.Continue()).To(BeTrue())
		Expect(session.State()).To(Equal(story.Dismissed))
		Expect(session.LetterVisible()).To(BeFalse())
		Expect(session.FeedVisible()).To(BeFalse())

		advance(500 * ms)
		Expect(session.FeedVisible()).To(BeTrue())
		Expect(session.Continue()).To(BeFalse())

		Expect(session.CloseFeed()).To(BeTrue())
		Expect(session.CloseFeed()).To(BeFalse())
		Expect(session.ReopenFeed()).To(BeTrue())
		Expect(session.CloseFeed()).To(BeTrue())

		Expect(session.Continue()).To(BeTrue())
		Expect(session.FeedVisible()).To(BeTrue())
		Expect(feedEvents).To(Equal([]bool{true, false, true, false, true}))
	})

	It("does not entice once the letter is dismissed", func() {
		open()
		advance(300 * ms)
		session.Continue()
		advance(5 * time.Second)
		Expect(session.Enticing()).To(BeFalse())
	})

	It("keeps going when the background fails to load", func() {
		session.AssetsLoaded(errors.New("404"))
		Expect(session.State()).To(Equal(story.Ready))
		session.AssetsLoaded(nil)
		Expect(transitions).To(HaveLen(1))
	})

	It("stops everything on cancel", func() {
		session.AssetsLoaded(nil)
		session.Open()
		advance(750 * ms)
		run := session.Run()
		Expect(run).NotTo(BeNil())

		session.Cancel()
		advance(10 * time.Second)
		Expect(run.State()).To(Equal(flap.RunCancelled))
		Expect(session.State()).To(Equal(story.Cancelled))
		Expect(session.Animating()).To(BeFalse())
		Expect(session.LetterVisible()).To(BeFalse())
		Expect(session.Continue()).To(BeFalse())
		Expect(clock.Pending()).To(BeZero())
	})

	It("ends a reveal cancelled before the body starts", func() {
		session.AssetsLoaded(nil)
		session.Open()
		advance(350 * ms)
		Expect(session.State()).To(Equal(story.HeaderShown))

		session.Cancel()
		advance(10 * time.Second)
		Expect(session.State()).To(Equal(story.Cancelled))
		Expect(session.Run()).To(BeNil())
		Expect(clock.Pending()).To(BeZero())
	})

	It("keeps a finished letter's state on cancel", func() {
		session.AssetsLoaded(nil)
		session.Open()
		advance(5 * time.Second)
		Expect(session.State()).To(Equal(story.Complete))

		session.Cancel()
		Expect(session.State()).To(Equal(story.Complete))
		Expect(session.Continue()).To(BeTrue())
	})

	Context("with the auto-opening preset", func() {
		BeforeEach(func() {
			Expect(cfg.ApplyPreset("classic")).To(Succeed())
			build()
		})

		It("opens by itself after the modal delay", func() {
			session.AssetsLoaded(nil)
			advance(199 * ms)
			Expect(session.State()).To(Equal(story.Ready))
			advance(1 * ms)
			Expect(session.State()).To(Equal(story.ModalShown))
			Expect(session.Expanding()).To(BeFalse())
			Expect(session.Open()).To(BeFalse())
		})

		It("completes the body exactly once", func() {
			session.AssetsLoaded(nil)
			advance(10 * time.Second)
			completes := 0
			for _, s := range transitions {
				if s == story.Complete {
					completes++
				}
			}
			Expect(completes).To(Equal(1))
		})
	})

	Context("with a signature", func() {
		BeforeEach(func() {
			cfg.Letter.Signature = "Bye"
			build()
		})

		It("shows the signature once its line starts", func() {
			session.AssetsLoaded(nil)
			session.Open()
			advance(750 * ms)
			Expect(session.SignatureVisible()).To(BeFalse())
			advance(time.Second)
			Expect(session.SignatureVisible()).To(BeTrue())
			lines := session.Lines()
			Expect(lines[len(lines)-1].Signature).To(BeTrue())
		})
	})
})

var _ = Describe("Timestamp", func() {
	It("formats like an en-US numeric locale string", func() {
		t := time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)
		Expect(story.Timestamp(t)).To(Equal("1/2/2026, 3:04:05 PM"))
	})
})
