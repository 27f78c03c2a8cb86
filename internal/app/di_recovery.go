package app

import (
	"fmt"

	ledgerRepository "github.com/allisson/posrecovery/internal/ledger/repository"
	ledgerUseCase "github.com/allisson/posrecovery/internal/ledger/usecase"
	recoveryUseCase "github.com/allisson/posrecovery/internal/recovery/usecase"
	settingsRepository "github.com/allisson/posrecovery/internal/settings/repository"
)

// SettingRepository returns the key-value settings repository backing the pending store.
func (c *Container) SettingRepository() (recoveryUseCase.PendingTransactionPersistence, error) {
	var err error
	c.settingRepoInit.Do(func() {
		c.settingRepo, err = c.initSettingRepository()
		if err != nil {
			c.initErrors["settingRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingRepo"]; exists {
		return nil, storedErr
	}
	return c.settingRepo, nil
}

// LedgerRepository returns the ledger repository based on the database driver.
func (c *Container) LedgerRepository() (ledgerUseCase.LedgerRepository, error) {
	var err error
	c.ledgerRepoInit.Do(func() {
		c.ledgerRepo, err = c.initLedgerRepository()
		if err != nil {
			c.initErrors["ledgerRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ledgerRepo"]; exists {
		return nil, storedErr
	}
	return c.ledgerRepo, nil
}

// LedgerUseCase returns the ledger use case.
func (c *Container) LedgerUseCase() (ledgerUseCase.LedgerUseCase, error) {
	var err error
	c.ledgerUseCaseInit.Do(func() {
		c.ledgerUseCase, err = c.initLedgerUseCase()
		if err != nil {
			c.initErrors["ledgerUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ledgerUseCase"]; exists {
		return nil, storedErr
	}
	return c.ledgerUseCase, nil
}

// PendingTransactionStore returns the durable pending transaction store.
func (c *Container) PendingTransactionStore() (recoveryUseCase.PendingTransactionStore, error) {
	var err error
	c.pendingStoreInit.Do(func() {
		c.pendingStore, err = c.initPendingTransactionStore()
		if err != nil {
			c.initErrors["pendingStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pendingStore"]; exists {
		return nil, storedErr
	}
	return c.pendingStore, nil
}

// Poller returns the transaction poller that takes over in-flight transactions.
func (c *Container) Poller() (*recoveryUseCase.TransactionPoller, error) {
	var err error
	c.pollerInit.Do(func() {
		c.poller, err = c.initPoller()
		if err != nil {
			c.initErrors["poller"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["poller"]; exists {
		return nil, storedErr
	}
	return c.poller, nil
}

// Reconciler returns the reconciler.
func (c *Container) Reconciler() (recoveryUseCase.Reconciler, error) {
	var err error
	c.reconcilerInit.Do(func() {
		c.reconciler, err = c.initReconciler()
		if err != nil {
			c.initErrors["reconciler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["reconciler"]; exists {
		return nil, storedErr
	}
	return c.reconciler, nil
}

func (c *Container) initSettingRepository() (recoveryUseCase.PendingTransactionPersistence, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for setting repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return settingsRepository.NewPostgreSQLSettingRepository(db, c.Clock()), nil
	case "mysql":
		return settingsRepository.NewMySQLSettingRepository(db, c.Clock()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initLedgerRepository() (ledgerUseCase.LedgerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for ledger repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return ledgerRepository.NewPostgreSQLLedgerRepository(db), nil
	case "mysql":
		return ledgerRepository.NewMySQLLedgerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initLedgerUseCase() (ledgerUseCase.LedgerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for ledger use case: %w", err)
	}

	repo, err := c.LedgerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger repository for ledger use case: %w", err)
	}

	return ledgerUseCase.NewLedgerUseCase(txManager, repo, c.Clock()), nil
}

func (c *Container) initPendingTransactionStore() (recoveryUseCase.PendingTransactionStore, error) {
	persistence, err := c.SettingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get setting repository for pending store: %w", err)
	}

	terminals, err := c.TerminalUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal use case for pending store: %w", err)
	}

	store := recoveryUseCase.NewPendingTransactionStore(persistence, terminals, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for pending store: %w", err)
		}
		return recoveryUseCase.NewPendingTransactionStoreWithMetrics(store, businessMetrics), nil
	}

	return store, nil
}

func (c *Container) initPoller() (*recoveryUseCase.TransactionPoller, error) {
	store, err := c.PendingTransactionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending store for poller: %w", err)
	}

	terminals, err := c.TerminalUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get terminal use case for poller: %w", err)
	}

	ledger, err := c.LedgerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger use case for poller: %w", err)
	}

	poller := recoveryUseCase.NewTransactionPoller(
		recoveryUseCase.PollerConfig{
			Interval:    c.config.PollInterval,
			MaxDuration: c.config.PollMaxDuration,
		},
		store,
		terminals,
		c.StatusClient(),
		ledger,
		c.Clock(),
		c.Logger(),
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for poller: %w", err)
	}
	if provider != nil {
		err = provider.ObserveGauge("active_pollers", "Transactions currently being polled on their terminal",
			func() int64 { return int64(poller.ActiveCount()) })
		if err != nil {
			return nil, fmt.Errorf("failed to register poller gauge: %w", err)
		}
	}

	return poller, nil
}

func (c *Container) initReconciler() (recoveryUseCase.Reconciler, error) {
	store, err := c.PendingTransactionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending store for reconciler: %w", err)
	}

	poller, err := c.Poller()
	if err != nil {
		return nil, fmt.Errorf("failed to get poller for reconciler: %w", err)
	}

	ledger, err := c.LedgerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger use case for reconciler: %w", err)
	}

	reconciler := recoveryUseCase.NewReconciler(
		recoveryUseCase.ReconcilerConfig{
			RecoveryWindow: c.config.RecoveryWindow,
			Concurrency:    c.config.RecoveryConcurrency,
		},
		store,
		c.StatusClient(),
		poller,
		ledger,
		c.Clock(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for reconciler: %w", err)
		}
		return recoveryUseCase.NewReconcilerWithMetrics(reconciler, businessMetrics), nil
	}

	return reconciler, nil
}
