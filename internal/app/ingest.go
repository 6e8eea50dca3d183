package app

import (
	"fmt"

	"dealflow/internal/dedup"
	"dealflow/internal/extract"
	"dealflow/internal/pipeline"
	"dealflow/internal/signature"
)

func (app *App) initializeIngestion() error {
	verifier, err := signature.NewVerifier(&signature.Config{
		PublicKeyPEM: app.Config.InboundPublicKey,
		MaxAge:       app.Config.SignatureMaxAge(),
		ClockSkew:    app.Config.SignatureClockSkew(),
		Production:   app.Config.IsProduction(),
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize signature verifier: %w", err)
	}

	checker := dedup.NewChecker(app.Storage, app.Logger)
	runner := extract.NewRunner(extract.NewPatternExtractor(), app.Config.ExtractionDeadline(), app.Logger)

	app.Pipeline = pipeline.New(verifier, checker, runner, app.Storage, app.Logger)
	return nil
}
