// Package useradd creates accounts directly in the relational store, for
// bootstrapping a deployment before anyone can register over HTTP.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/cryptox"
	"github.com/dmitrijs2005/smartnotes/internal/flagx"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var ErrNotRelational = errors.New("useradd needs the relational storage backend")

type Options struct {
	UserName string
	Email    string
}

// ParseArgs reads -u and -m from args. Server flags mixed into the same
// command line are ignored.
func ParseArgs(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.UserName, "u", "", "user name")
	fs.StringVar(&o.Email, "m", "", "email")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-u", "-m"})); err != nil {
		return o, err
	}
	if o.UserName == "" || o.Email == "" {
		return o, fmt.Errorf("usage: useradd -u <name> -m <email>")
	}
	return o, nil
}

// ReadPassword prompts on w and reads a password from in without echo when
// in is a terminal. Otherwise the first line of in is used, which lets
// scripts pipe the password in.
func ReadPassword(in *os.File, w io.Writer) ([]byte, error) {
	fd := int(in.Fd())
	if isTerminal(fd) {
		if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
			return nil, err
		}
		pw, err := readPassword(fd)
		fmt.Fprintln(w)
		return pw, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// Run creates the account described by o in the store configured by cfg.
func Run(ctx context.Context, cfg *config.Config, o Options, password []byte, logger logging.Logger, w io.Writer) error {
	defer common.WipeByteArray(password)

	if cfg.StorageBackend != config.BackendRelational {
		return ErrNotRelational
	}

	rm, err := repomanager.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rm.Close(); err != nil {
			logger.Error(ctx, "close storage", "error", err)
		}
	}()

	dir := services.NewUserDirectory(rm.Users(), cryptox.Hasher{Iterations: cfg.PasswordIterations}, logger)
	user, err := dir.CreateUser(ctx, o.UserName, string(password), o.Email)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "created user %s (%s)\n", user.UserName, user.ID)
	return err
}
