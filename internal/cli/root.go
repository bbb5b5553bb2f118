/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tomoncle/mediatek"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/utils"
	"golang.org/x/term"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath  string
	dbType      string
	dbName      string
	askPassword bool
	logLevel    string
	logFormat   string

	stdin  io.Reader
	stderr io.Writer
}

// Run executes the command line in args and returns the process exit code.
// Results go to out; logs and errors go to errOut.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) int {
	root := NewRootCommand(in, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the mediatek command tree.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{stdin: in, stderr: errOut}

	root := &cobra.Command{
		Use:           "mediatek",
		Short:         "Query and edit the media catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			utils.ConfigureConsoleOutput(errOut)
			utils.ConfigureConsoleLogFormat(opts.logFormat)
			utils.ConfigureLogLevel(opts.logLevel)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	opts.bindFlags(root.PersistentFlags())

	root.AddCommand(
		newInitCommand(opts),
		newSelectCommand(opts),
		newInsertCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newHealthCommand(opts),
	)
	return root
}

func (o *globalOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	fs.StringVar(&o.dbType, "type", "", "database type: mysql, postgres, pgx or sqlite")
	fs.StringVar(&o.dbName, "dbname", "", "database name, or file name for sqlite")
	fs.BoolVar(&o.askPassword, "ask-password", false, "prompt for the database password")
	fs.StringVar(&o.logLevel, "log-level", utils.EnvDefaultString("LOG_LEVEL", "warn"), "log level")
	fs.StringVar(&o.logFormat, "log-format", utils.EnvDefaultString("CONSOLE_LOG_FORMAT", "text"), "log format: text or json")
}

// config resolves the configuration file and applies the flags on top.
// DB_* environment variables are applied later by the database factory.
func (o *globalOptions) config() (*database.Config, error) {
	cfg := database.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = database.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.dbType != "" {
		cfg.ConnectionConfig.Type = o.dbType
	}
	if o.dbName != "" {
		cfg.ConnectionConfig.DBName = o.dbName
	}
	if o.askPassword {
		password, err := o.readPassword("Database password: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		cfg.ConnectionConfig.Password = password
	}
	return cfg, nil
}

// readPassword reads without echo from a terminal, or a line from stdin.
func (o *globalOptions) readPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(o.stderr, prompt)
	defer func() { _, _ = fmt.Fprintln(o.stderr) }()

	if f, ok := o.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(o.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// connect opens a session. The caller closes it.
func (o *globalOptions) connect(ctx context.Context) (*database.Session, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return database.Connect(ctx, cfg)
}

// dispatcher opens a session and a dispatcher over its adapter.
func (o *globalOptions) dispatcher(ctx context.Context) (*database.Session, *mediatek.QueryDispatcher, error) {
	session, err := o.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	d, err := mediatek.New(session.Adapter)
	if err != nil {
		_ = session.Close()
		return nil, nil, err
	}
	return session, d, nil
}
