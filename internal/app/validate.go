package app

import (
	"fmt"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/config"
	"github.com/felixgeelhaar/pkgreconcile/internal/provider/yum"
)

// ValidateRepositories checks the managed repository definitions the way
// yum would read them. Structural checks already ran in LoadConfig.
func (r *Reconciler) ValidateRepositories(cfg *config.Config) error {
	errs := config.NewErrorList()

	for i, repo := range cfg.Repositories {
		if repo.Content == "" {
			continue
		}
		if err := yum.ValidateRepoContent(repo.Content); err != nil {
			errs.AddValidation(
				fmt.Sprintf("repositories[%d].content", i),
				err.Error(),
				"Each [section] needs a baseurl, mirrorlist or metalink",
			)
		}
	}

	return errs.AsError()
}

// PrintValidation summarizes a configuration that passed validation.
func (r *Reconciler) PrintValidation(cfg *config.Config) {
	s := defaultStyles()
	managed := len(cfg.ManagedRepositories())
	r.printf("%s\n", s.Success.Render("Configuration is valid"))
	r.printf("  Backend:      %s\n", cfg.Manager.Backend)
	r.printf("  Packages:     %d\n", len(cfg.Specs()))
	r.printf("  Repositories: %d (%d with definitions)\n", len(cfg.Repositories), managed)
}
