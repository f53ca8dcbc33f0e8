//go:build integration

package integration

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/infra"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/score"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

var _ = Describe("Classification Engine", func() {
	var (
		eng   *engine.Engine
		lists *liststore.Store
		store *infra.MemoryStore
	)

	classify := func(title, channel string) domain.Decision {
		return eng.Classify(context.Background(), domain.Record{
			ItemID:      "vid-" + title,
			Title:       title,
			ChannelName: channel,
		})
	}

	BeforeEach(func() {
		logger := zap.NewNop()
		store = infra.NewMemoryStore()
		lex := lexicon.Default()
		lists = liststore.New(store, logger)
		agg := stats.New(store, logger)
		eng = engine.New(lex, lists, score.New(lex), nil, agg, store, logger)
		lists.SetOnMutate(eng.Invalidate)
	})

	Describe("scoring layer", func() {
		It("shows a university lecture", func() {
			d := classify("Lecture 3: Limits and Derivatives | MIT Calculus", "MIT OpenCourseWare")
			Expect(d.Hidden).To(BeFalse())
			Expect(d.Layer).To(Equal(domain.LayerKeywordStrong))
		})

		It("hides a music video", func() {
			d := classify("OFFICIAL MUSIC VIDEO - New Single", "Pop Star")
			Expect(d.Hidden).To(BeTrue())
			Expect(d.Layer).To(Equal(domain.LayerKeywordStrong))
		})

		It("shows items with no usable signal", func() {
			d := eng.Classify(context.Background(), domain.Record{ItemID: "blank"})
			Expect(d.Hidden).To(BeFalse())
		})
	})

	Describe("list layers", func() {
		It("honors a whitelisted channel over a terrible score", func() {
			lists.AddChannel(domain.Whitelist, "UCgood")
			d := eng.Classify(context.Background(), domain.Record{
				ItemID:      "vid1",
				ChannelID:   "UCgood",
				Title:       "prank challenge gone wrong",
				ChannelName: "Pranksters",
			})
			Expect(d.Hidden).To(BeFalse())
			Expect(d.Layer).To(Equal(domain.LayerListWhitelist))
		})

		It("re-classifies after a list mutation", func() {
			d := classify("Lecture 3: Limits and Derivatives | MIT Calculus", "MIT OpenCourseWare")
			Expect(d.Hidden).To(BeFalse())

			lists.AddItem(domain.Blacklist, d.ItemID)
			d = classify("Lecture 3: Limits and Derivatives | MIT Calculus", "MIT OpenCourseWare")
			Expect(d.Hidden).To(BeTrue())
			Expect(d.Layer).To(Equal(domain.LayerListBlacklist))
		})
	})

	Describe("sensitivity dial", func() {
		It("hides more as the dial rises", func() {
			// Two weak educational keywords: a borderline score.
			title := "Concept overview for the curious"

			Expect(eng.SetSensitivity(0)).To(Succeed())
			relaxed := classify(title, "Some Channel")
			Expect(relaxed.Hidden).To(BeFalse())

			Expect(eng.SetSensitivity(100)).To(Succeed())
			strict := classify(title, "Some Channel")
			Expect(strict.Hidden).To(BeTrue())
		})

		It("persists configuration across restarts", func() {
			Expect(eng.SetSensitivity(80)).To(Succeed())
			eng.SetEnabled(true)

			logger := zap.NewNop()
			lex := lexicon.Default()
			reloaded := engine.New(lex, liststore.New(store, logger), score.New(lex),
				nil, stats.New(store, logger), store, logger)
			Expect(reloaded.Config().Sensitivity).To(Equal(80))
			Expect(reloaded.Enabled()).To(BeTrue())
		})
	})
})
