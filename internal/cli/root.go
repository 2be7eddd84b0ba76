package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go-gin-user-console/internal/core/logger"
	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/repo"
	"go-gin-user-console/internal/style"
)

const (
	envPrefix      = "USERCTL"
	defaultBaseURL = "https://jsonplaceholder.typicode.com"
)

type Options struct {
	API      domain.UserAPI // 非空时直接使用（测试注入），否则按 --base-url 构建
	Prompter Prompter       // 为空则不支持交互输入
}

type app struct {
	opts    Options
	v       *viper.Viper
	api     domain.UserAPI
	cleanup func()
}

func NewRootCmd(o Options) *cobra.Command {
	a := &app{opts: o, v: viper.New()}
	root := &cobra.Command{
		Use:   "userctl",
		Short: "Manage users of the remote users API",
		Long: `userctl lists, searches, views, creates, edits and deletes user records
through the same controllers the web console uses.

Flags can also be set from the environment (USERCTL_BASE_URL, USERCTL_TIMEOUT,
USERCTL_VERBOSE).

Examples:
  userctl list --search ann          # Case-insensitive name filter
  userctl view 3 -o yaml             # One user as YAML
  userctl create -i                  # Prompt for every field
  userctl create --set name="Ann Lee" --set email=ann@x.io ...
  userctl edit 3 --set address.city=Paris
  userctl delete 3`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("base-url", defaultBaseURL, "Base URL of the users API")
	pf.Duration("timeout", 0, "Per-request timeout (0 = none)")
	pf.BoolP("verbose", "v", false, "Log every upstream call to stderr")
	_ = a.v.BindPFlags(pf)
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.listCmd(), a.viewCmd(), a.createCmd(), a.editCmd(), a.deleteCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.opts.API != nil {
		a.api = a.opts.API
		return nil
	}
	level := "warn"
	if a.v.GetBool("verbose") {
		level = "debug"
	}
	var log *zap.Logger
	log, a.cleanup = logger.Build(logger.Options{Level: level, Out: cmd.ErrOrStderr()})
	hc := &http.Client{Timeout: a.v.GetDuration("timeout")}
	a.api = repo.NewUserRepo(a.v.GetString("base-url"), hc, log)
	return nil
}

// Execute 入口；返回进程退出码
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd(Options{Prompter: SurveyPrompter{}})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorPrefix, err)
		return 1
	}
	return 0
}
