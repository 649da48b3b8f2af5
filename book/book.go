// Package book supplies static book chapters that join the scraped batch.
// The chapters stand behind the ChapterSource contract so a real PDF or
// EPUB extractor can replace them without touching the pipeline.
package book

import (
	"fmt"
	"strings"

	"github.com/harvestlabs/harvest"
)

// DefaultBaseURL anchors chapter source URLs when none is configured.
const DefaultBaseURL = "https://interviewing.io/beyond-ctci"

// chapter holds the static text for one book chapter.
type chapter struct {
	title   string
	summary string
	topics  []string
}

var chapters = []chapter{
	{
		title:   "Chapter 1: Introduction to Technical Interviews",
		summary: "What technical interviews measure, how the process differs across companies, and why preparation is a learnable skill rather than a talent lottery.",
		topics:  []string{"interview formats and what each one tests", "how interviewers calibrate signal", "building a preparation plan that fits your timeline"},
	},
	{
		title:   "Chapter 2: Data Structures Fundamentals",
		summary: "The core data structures every candidate is expected to wield fluently, with the trade-offs that interviewers probe for.",
		topics:  []string{"arrays, strings and the cost of resizing", "hash tables and collision behavior", "trees, heaps and when each wins", "linked lists and pointer manipulation"},
	},
	{
		title:   "Chapter 3: Algorithm Design Patterns",
		summary: "Recurring patterns that solve most interview problems: recognizing them is faster than inventing from scratch under pressure.",
		topics:  []string{"two pointers and sliding windows", "binary search beyond sorted arrays", "breadth-first and depth-first traversal", "dynamic programming decomposition"},
	},
	{
		title:   "Chapter 4: System Design Principles",
		summary: "How to structure an open-ended design conversation: requirements first, then data flow, then the scaling story.",
		topics:  []string{"clarifying functional and scale requirements", "storage selection and data modeling", "caching, sharding and replication", "trade-off narration interviewers reward"},
	},
	{
		title:   "Chapter 5: Behavioral Interview Mastery",
		summary: "Behavioral rounds are predictable and preparable. Structured stories beat improvisation every time.",
		topics:  []string{"the situation-action-result structure", "choosing stories that show growth", "handling conflict and failure questions honestly"},
	},
	{
		title:   "Chapter 6: Mock Interview Strategies",
		summary: "Deliberate practice with feedback loops is the highest-leverage preparation activity; this chapter shows how to run it.",
		topics:  []string{"finding practice partners and platforms", "thinking aloud without rambling", "converting feedback into drills"},
	},
	{
		title:   "Chapter 7: Negotiation and Offers",
		summary: "The interview is not over at the offer. Negotiation is expected, and candidates who skip it leave compensation on the table.",
		topics:  []string{"understanding total compensation", "timing competing offers", "scripts for the negotiation call"},
	},
	{
		title:   "Chapter 8: Managing Your Job Search",
		summary: "Treating the search as a pipeline keeps momentum through rejections and parallel processes.",
		topics:  []string{"sequencing applications for practice effects", "tracking state across companies", "avoiding burnout over a long search"},
	},
}

// Ensure Source implements harvest.ChapterSource at compile time.
var _ harvest.ChapterSource = (*Source)(nil)

// Source serves the built-in chapter set.
type Source struct {
	baseURL string
	author  string
}

// Option configures a Source.
type Option func(*Source)

// WithBaseURL sets the URL chapters are anchored under.
func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = u }
}

// WithAuthor sets the author attributed to every chapter.
func WithAuthor(a string) Option {
	return func(s *Source) { s.author = a }
}

// NewSource creates a chapter Source.
func NewSource(opts ...Option) *Source {
	s := &Source{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chapters returns the chapters as items, in book order. Every call
// builds fresh items so callers may mutate them freely.
func (s *Source) Chapters() []*harvest.Item {
	items := make([]*harvest.Item, 0, len(chapters))
	for i, ch := range chapters {
		items = append(items, &harvest.Item{
			Title:       ch.title,
			Content:     renderChapter(ch),
			Author:      s.author,
			SourceURL:   fmt.Sprintf("%s#chapter-%d", s.baseURL, i+1),
			ContentType: harvest.ContentTypeBook,
		})
	}
	return items
}

// renderChapter lays the chapter out as markdown, matching the shape of
// scraped article bodies.
func renderChapter(ch chapter) string {
	var b strings.Builder
	b.WriteString("# " + ch.title + "\n\n")
	b.WriteString(ch.summary + "\n\n")
	b.WriteString("## What This Chapter Covers\n\n")
	for _, topic := range ch.topics {
		b.WriteString("- " + topic + "\n")
	}
	b.WriteString("\nEach section pairs the concept with worked examples and the follow-up questions interviewers actually ask, so the material sticks when it matters.")
	return b.String()
}
