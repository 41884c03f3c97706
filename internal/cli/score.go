package cli

import (
	"context"

	urfave "github.com/urfave/cli/v3"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/usecase"
)

func transactionFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{Name: "amount", Usage: "Payment amount in USD", Required: true},
		&urfave.StringFlag{Name: "country", Usage: "Sender country code (e.g. NG)", Required: true},
		&urfave.StringFlag{Name: "type", Usage: "Transaction type [standard, first-time, instant]", Value: "standard"},
		&urfave.StringFlag{Name: "age", Usage: "Account age [new, 6months, established]", Value: "established"},
	}
}

func formFromFlags(cmd *urfave.Command) dto.SubmissionForm {
	return dto.SubmissionForm{
		Amount:          cmd.String("amount"),
		Country:         cmd.String("country"),
		TransactionType: cmd.String("type"),
		AccountAge:      cmd.String("age"),
	}
}

func (a *app) scoreCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "score",
		Usage: "Score a payment and print the decision",
		Flags: transactionFlags(),
		Action: func(ctx context.Context, cmd *urfave.Command) error {
			resp, err := usecase.NewAssessTransaction(a.scorer, a.logger).Execute(ctx, formFromFlags(cmd))
			if err != nil {
				return err
			}
			return a.encode(resp)
		},
	}
}

func (a *app) jurisdictionsCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "jurisdictions",
		Usage: "Print the jurisdiction table in use",
		Action: func(ctx context.Context, _ *urfave.Command) error {
			return a.encode(usecase.NewListJurisdictions(a.scorer).Execute(ctx))
		},
	}
}
