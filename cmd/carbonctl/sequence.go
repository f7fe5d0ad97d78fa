package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	sequenceapp "github.com/van-william/carbon-sub017/internal/application/sequence"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence"
)

var (
	companyFlag string
	docTypeFlag string
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Inspect and seed document number sequences",
}

var sequenceSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default sequence of every document type a company lacks",
	Args:  cobra.NoArgs,
	RunE: withSequences(func(ctx context.Context, cmd *cobra.Command, svc *sequenceapp.Service, companyID uuid.UUID) error {
		created, err := svc.SeedDefaults(ctx, companyID)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d sequences\n", created)
		return nil
	}),
}

var sequenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a company's sequences",
	Args:  cobra.NoArgs,
	RunE: withSequences(func(ctx context.Context, cmd *cobra.Command, svc *sequenceapp.Service, companyID uuid.UUID) error {
		seqs, err := svc.List(ctx, companyID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, s := range seqs {
			cmd.Printf("%-14s last=%-8d step=%d upcoming=%s\n", s.DocumentType, s.Next, s.Step, s.Preview(now))
		}
		return nil
	}),
}

var sequencePeekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Show the number the next document would get, without consuming it",
	Args:  cobra.NoArgs,
	RunE: withSequences(func(ctx context.Context, cmd *cobra.Command, svc *sequenceapp.Service, companyID uuid.UUID) error {
		number, err := svc.Peek(ctx, companyID, sequence.DocumentType(docTypeFlag))
		if err != nil {
			return err
		}
		cmd.Println(number)
		return nil
	}),
}

var sequenceNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Consume and print the next number",
	Args:  cobra.NoArgs,
	RunE: withSequences(func(ctx context.Context, cmd *cobra.Command, svc *sequenceapp.Service, companyID uuid.UUID) error {
		issued, err := svc.Issue(ctx, companyID, sequence.DocumentType(docTypeFlag))
		if err != nil {
			return err
		}
		cmd.Println(issued.Number)
		return nil
	}),
}

func init() {
	sequenceCmd.PersistentFlags().StringVar(&companyFlag, "company", "", "company id (required)")
	_ = sequenceCmd.MarkPersistentFlagRequired("company")

	for _, c := range []*cobra.Command{sequencePeekCmd, sequenceNextCmd} {
		c.Flags().StringVar(&docTypeFlag, "type", "", "document type: customer, supplier, quote, salesOrder, purchaseOrder, job")
		_ = c.MarkFlagRequired("type")
	}

	sequenceCmd.AddCommand(sequenceSeedCmd, sequenceListCmd, sequencePeekCmd, sequenceNextCmd)
}

func parseCompany() (uuid.UUID, error) {
	id, err := uuid.Parse(companyFlag)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid company id %q", companyFlag)
	}
	return id, nil
}

type sequenceFunc func(ctx context.Context, cmd *cobra.Command, svc *sequenceapp.Service, companyID uuid.UUID) error

// withSequences connects to the database and runs fn against a sequence
// service for the --company flag
func withSequences(fn sequenceFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		companyID, err := parseCompany()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() {
			_ = log.Sync()
		}()

		db, err := persistence.NewDatabase(&cfg.Database, log, logLevel)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		svc := sequenceapp.NewService(persistence.NewGormSequenceRepository(db.DB))
		return fn(cmd.Context(), cmd, svc, companyID)
	}
}
