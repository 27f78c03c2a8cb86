package app

import (
	"context"
	"fmt"

	terminalClient "github.com/allisson/posrecovery/internal/terminal/client"
	terminalRepository "github.com/allisson/posrecovery/internal/terminal/repository"
	terminalService "github.com/allisson/posrecovery/internal/terminal/service"
	terminalUseCase "github.com/allisson/posrecovery/internal/terminal/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() terminalService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = terminalService.NewKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper protecting terminal API keys, opened from KMS_KEY_URI.
func (c *Container) KMSKeeper() (terminalService.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// TerminalRepository returns the terminal repository based on the database driver.
func (c *Container) TerminalRepository() (terminalUseCase.TerminalRepository, error) {
	var err error
	c.terminalRepoInit.Do(func() {
		c.terminalRepo, err = c.initTerminalRepository()
		if err != nil {
			c.initErrors["terminalRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["terminalRepo"]; exists {
		return nil, storedErr
	}
	return c.terminalRepo, nil
}

// TerminalUseCase returns the terminal use case.
func (c *Container) TerminalUseCase() (terminalUseCase.TerminalUseCase, error) {
	var err error
	c.terminalUseCaseInit.Do(func() {
		c.terminalUseCase, err = c.initTerminalUseCase()
		if err != nil {
			c.initErrors["terminalUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["terminalUseCase"]; exists {
		return nil, storedErr
	}
	return c.terminalUseCase, nil
}

// StatusClient returns the terminal status client.
func (c *Container) StatusClient() *terminalClient.StatusClient {
	c.statusClientInit.Do(func() {
		c.statusClient = terminalClient.NewStatusClient(terminalClient.Config{
			Timeout:   c.config.TerminalRequestTimeout,
			RateLimit: c.config.TerminalRateLimitPerSec,
			Burst:     c.config.TerminalRateLimitBurst,
		}, nil, c.Logger())
	})
	return c.statusClient
}

func (c *Container) initKMSKeeper() (terminalService.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, fmt.Errorf("KMS_KEY_URI is required to protect terminal api keys")
	}
	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	return keeper, nil
}

func (c *Container) initTerminalRepository() (terminalUseCase.TerminalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for terminal repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return terminalRepository.NewPostgreSQLTerminalRepository(db), nil
	case "mysql":
		return terminalRepository.NewMySQLTerminalRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTerminalUseCase() (terminalUseCase.TerminalUseCase, error) {
	repo, err := c.TerminalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal repository for terminal use case: %w", err)
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for terminal use case: %w", err)
	}

	return terminalUseCase.NewTerminalUseCase(repo, keeper, c.Clock()), nil
}
