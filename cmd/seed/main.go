// Package main provides a tool to seed the database with sample reading data.
//
// It creates a handful of books, a month of reading sessions, and a few goals,
// then lets the reconciliation engine bring the books' progress in line with
// the session log. Useful for exercising the statistics and goal endpoints.
//
// Usage:
//
//	DB_PATH=~/.inkwell/inkwell.db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

var sessionCount = flag.Int("sessions", 30, "Number of reading sessions to create")

type seedBook struct {
	title      string
	author     string
	bookType   domain.BookType
	totalPages int
	totalMins  int
}

var seedBooks = []seedBook{
	{"The Name of the Wind", "Patrick Rothfuss", domain.BookTypePhysical, 662, 0},
	{"Piranesi", "Susanna Clarke", domain.BookTypeEbook, 245, 0},
	{"Project Hail Mary", "Andy Weir", domain.BookTypeAudiobook, 0, 970},
	{"The Dispossessed", "Ursula K. Le Guin", domain.BookTypePhysical, 387, 0},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/.inkwell/inkwell.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	bookService := service.NewBookService(st, logger)
	sessionService := service.NewSessionService(st, logger)
	goalService := service.NewGoalService(st, logger)
	noteService := service.NewNoteService(st, logger)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Create books.
	var bookIDs []string
	var audioIDs []string
	for _, sb := range seedBooks {
		input := service.CreateBookInput{
			Title:    sb.title,
			Author:   ptr(sb.author),
			BookType: sb.bookType,
		}
		if sb.totalPages > 0 {
			input.TotalPages = ptr(sb.totalPages)
		}
		if sb.totalMins > 0 {
			input.TotalMinutes = ptr(sb.totalMins)
		}

		book, err := bookService.CreateBook(ctx, input)
		if err != nil {
			log.Fatalf("Failed to create book %q: %v", sb.title, err)
		}
		fmt.Printf("Created book: %s (%s)\n", book.Title, book.ID)

		if sb.bookType == domain.BookTypeAudiobook {
			audioIDs = append(audioIDs, book.ID)
		} else {
			bookIDs = append(bookIDs, book.ID)
		}
	}

	// Spread sessions over the last 30 days. Paged books get page ranges,
	// audiobooks get minutes. Reconciliation runs after every create.
	cursor := map[string]int{}
	for i := 0; i < *sessionCount; i++ {
		daysAgo := rng.Intn(30)
		date := time.Now().UTC().AddDate(0, 0, -daysAgo)

		var input service.CreateSessionInput
		if len(audioIDs) > 0 && rng.Intn(3) == 0 {
			input = service.CreateSessionInput{
				BookID:      audioIDs[rng.Intn(len(audioIDs))],
				SessionDate: date,
				MinutesRead: ptr(15 + rng.Intn(60)),
			}
		} else {
			bookID := bookIDs[rng.Intn(len(bookIDs))]
			start := cursor[bookID]
			pages := 5 + rng.Intn(40)
			input = service.CreateSessionInput{
				BookID:      bookID,
				SessionDate: date,
				StartPage:   ptr(start),
				EndPage:     ptr(start + pages),
				MinutesRead: ptr(pages * 2),
			}
			cursor[bookID] = start + pages
		}

		if _, err := sessionService.CreateSession(ctx, input); err != nil {
			log.Printf("Skipping session: %v", err)
		}
	}
	fmt.Printf("Created %d sessions\n", *sessionCount)

	// A note on the first book.
	if len(bookIDs) > 0 {
		_, err := noteService.CreateNote(ctx, service.CreateNoteInput{
			BookID:  bookIDs[0],
			Page:    ptr(42),
			Content: "The framing device really starts to pay off here.",
		})
		if err != nil {
			log.Printf("Failed to create note: %v", err)
		}
	}

	// Goals scoped to the current period.
	now := time.Now().UTC()
	goals := []service.CreateGoalInput{
		{GoalType: domain.GoalPagesMonthly, TargetValue: 500, PeriodYear: ptr(now.Year()), PeriodMonth: ptr(int(now.Month()))},
		{GoalType: domain.GoalBooksYearly, TargetValue: 24, PeriodYear: ptr(now.Year())},
		{GoalType: domain.GoalMinutesDaily, TargetValue: 30},
	}
	for _, g := range goals {
		goal, err := goalService.CreateGoal(ctx, g)
		if err != nil {
			log.Printf("Failed to create goal: %v", err)
			continue
		}
		fmt.Printf("Created goal: %s (target %d)\n", goal.GoalType, goal.TargetValue)
	}

	fmt.Println("\nSeeding complete.")
}

func ptr[T any](v T) *T { return &v }
