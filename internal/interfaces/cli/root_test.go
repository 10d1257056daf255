package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-storefront/internal/app"
)

func noApp(app.Options) (*app.App, error) {
	panic("commands must not build the app in this test")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(noApp)
	require.NotNil(t, cmd)
	assert.Equal(t, "storefront", cmd.Use)
	assert.True(t, cmd.SilenceErrors)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(noApp)
	commands := [][]string{
		{"login"}, {"signup"}, {"logout"}, {"whoami"},
		{"catalog", "categories"}, {"catalog", "products"}, {"catalog", "product"},
		{"cart", "show"}, {"cart", "add"}, {"cart", "update"}, {"cart", "remove"}, {"cart", "clear"},
		{"address", "list"}, {"address", "add"}, {"address", "default"}, {"address", "delete"},
		{"orders", "list"}, {"orders", "receipt"},
		{"checkout"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(noApp)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	yesFlag := cmd.PersistentFlags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
}

func TestCartAddFlags(t *testing.T) {
	cmd := NewRootCommand(noApp)
	addCmd, _, err := cmd.Find([]string{"cart", "add"})
	require.NoError(t, err)

	qtyFlag := addCmd.Flags().Lookup("qty")
	require.NotNil(t, qtyFlag)
	assert.Equal(t, "q", qtyFlag.Shorthand)
	assert.Equal(t, "1", qtyFlag.DefValue)
}

func TestCheckoutFlags(t *testing.T) {
	cmd := NewRootCommand(noApp)
	checkoutCmd, _, err := cmd.Find([]string{"checkout"})
	require.NoError(t, err)

	paymentFlag := checkoutCmd.Flags().Lookup("payment")
	require.NotNil(t, paymentFlag)
	assert.Equal(t, "cod", paymentFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand(noApp)
	cmd.SetArgs([]string{"--format", "xml", "whoami"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
