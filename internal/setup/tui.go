package setup

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/serolight/walletdash/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the result to
// configPath.
func RunTUI(configPath string) error {
	walletHost := config.DefaultWalletHost
	explorerURL := config.DefaultExplorerURL
	currency := config.DefaultNativeCurrency
	pageSizeStr := strconv.Itoa(config.DefaultPageSize)
	accountIntervalStr := config.DefaultAccountRefreshInterval.String()
	txIntervalStr := config.DefaultTxRefreshInterval.String()
	blockIntervalStr := config.DefaultBlockRefreshInterval.String()
	var confirm bool

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("WALLETDASH CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point the dashboard at your wallet daemon.\n"))

	fmt.Println(stepStyle.Render("STEP 1: ENDPOINTS"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Wallet daemon URL").
				Description("Base URL of the local wallet daemon").
				Value(&walletHost),
			huh.NewInput().
				Title("Explorer block-count URL").
				Description("Read-only endpoint reporting chain height").
				Value(&explorerURL),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("WALLETDASH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: DISPLAY"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Native currency symbol").
				Value(&currency),
			huh.NewInput().
				Title("Transactions per page").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}).
				Value(&pageSizeStr),
		),
	).Run()
	if err != nil {
		return err
	}

	validateDuration := func(s string) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("must be a duration like 1s or 500ms")
		}
		if d <= 0 {
			return fmt.Errorf("must be positive")
		}
		return nil
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("WALLETDASH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: REFRESH INTERVALS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Account refresh interval").
				Validate(validateDuration).
				Value(&accountIntervalStr),
			huh.NewInput().
				Title("Transaction refresh interval").
				Validate(validateDuration).
				Value(&txIntervalStr),
			huh.NewInput().
				Title("Block height refresh interval").
				Validate(validateDuration).
				Value(&blockIntervalStr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("WALLETDASH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: CONFIRM"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write configuration to %s?", configPath)).
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Aborted, nothing written."))
		return nil
	}

	pageSize, _ := strconv.Atoi(pageSizeStr)
	accountInterval, _ := time.ParseDuration(accountIntervalStr)
	txInterval, _ := time.ParseDuration(txIntervalStr)
	blockInterval, _ := time.ParseDuration(blockIntervalStr)

	cfg := config.Config{
		WalletHost:             walletHost,
		ExplorerURL:            explorerURL,
		NativeCurrency:         currency,
		PageSize:               pageSize,
		AccountRefreshInterval: accountInterval,
		TxRefreshInterval:      txInterval,
		BlockRefreshInterval:   blockInterval,
		RequestTimeout:         config.DefaultRequestTimeout,
	}
	if err := cfg.Write(configPath); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("Configuration saved to " + configPath))
	return nil
}
