package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/22146025/lord-s-heart-educational-complex/internal/dto"
	"github.com/22146025/lord-s-heart-educational-complex/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	userSvc service.UserService
	appSvc  service.ApplicationService
	migrate func() error
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate                                            - apply pending database migrations")
	fmt.Fprintln(cli.out, "  createsuperuser -username USERNAME [-email EMAIL]  - create a superuser, the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME                   - reset a user's password, the password is prompted")
	fmt.Fprintln(cli.out, "  applications approve|reject|mark-reviewed -ids 1,2 - bulk update admission applications")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createSuperuserCmd := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	createSuperuserUname := createSuperuserCmd.String("username", "", "The superuser's username. The password will be prompted next.")
	createSuperuserEmail := createSuperuserCmd.String("email", "", "The superuser's email address.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.migrate()

	case "createsuperuser":
		if err := createSuperuserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *createSuperuserUname == "" {
			createSuperuserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			createSuperuserCmd.Usage()
			return errHelp
		}
		return cli.createSuperuser(*createSuperuserUname, *createSuperuserEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.userSvc.SetPassword(context.Background(), *resetPasswordUname, pwd)

	case "applications":
		return cli.applications(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) createSuperuser(uname, email, pwd string) error {
	user, err := cli.userSvc.CreateSuperuser(context.Background(), &dto.CreateUserRequest{
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Superuser %q created (id %d).\n", user.Username, user.ID)
	return nil
}

// applications bulk status changes, same semantics as the HTTP bulk actions
func (cli *commandLine) applications(args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	cmd := flag.NewFlagSet("applications "+args[0], flag.ContinueOnError)
	rawIDs := cmd.String("ids", "", "Comma separated application ids.")
	if err := cmd.Parse(args[1:]); err != nil {
		return errHelp
	}
	ids, err := parseIDs(*rawIDs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var updated int64
	switch args[0] {
	case "approve":
		updated, err = cli.appSvc.ApproveAll(ctx, ids)
	case "reject":
		updated, err = cli.appSvc.RejectAll(ctx, ids)
	case "mark-reviewed":
		updated, err = cli.appSvc.MarkReviewedAll(ctx, ids)
	default:
		cli.printUsage()
		return errHelp
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%d applications updated.\n", updated)
	return nil
}

func parseIDs(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, service.ErrEmptySelection
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
