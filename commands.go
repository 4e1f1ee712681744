package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/ammdias/tvault/clip"
	"github.com/ammdias/tvault/crypt"
	"github.com/ammdias/tvault/dialog"
	"github.com/ammdias/tvault/recordfmt"
	"github.com/ammdias/tvault/toolbox"
	"github.com/ammdias/tvault/totp"
	"github.com/ammdias/tvault/vault"
)

var (
	errColor  = color.FgLightRed
	infoColor = color.FgLightMagenta
	keyColor  = color.FgLightGreen
)

type uiContext struct {
	tools  toolbox.Registry
	log    *zap.Logger
	path   string
	noClip bool

	store *vault.Store
	gen   totp.Generator
}

// run checks tool preconditions and dispatches exactly one command. Unknown
// commands and wrong arities print the usage text and are not failures.
func (u *uiContext) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	gpgPath, ok := u.tools.Path(toolbox.GPG)
	if !ok {
		return errors.New("TOTP Vault needs GnuPG to run.\n" +
			"Please make sure it is installed and in the PATH.")
	}
	u.store = vault.New(u.path, crypt.NewGPG(gpgPath, u.log), u.log)

	if oathPath, ok := u.tools.Path(toolbox.Oathtool); ok {
		u.gen = totp.NewOathtool(oathPath, u.log)
	} else {
		u.gen = totp.Builtin{}
	}

	if !u.noClip && !u.tools.Has(toolbox.Xclip) && !u.tools.Has(toolbox.Xsel) {
		infoColor.Println("Neither xclip nor xsel is installed.\n" +
			"Generated codes will not be automatically copied to the clipboard.")
		u.noClip = true
	}

	switch cmd := args[0]; {
	case cmd == "-list" && len(args) == 1:
		return u.list(ctx)
	case cmd == "-add" && len(args) == 3:
		return u.add(ctx, args[1], args[2])
	case cmd == "-del" && len(args) == 2:
		return u.del(ctx, args[1])
	case cmd == "-secret" && len(args) == 2:
		return u.secret(ctx, args[1])
	case cmd == "-chpass" && len(args) == 1:
		return u.chpass(ctx)
	case cmd == "-recipient" && len(args) == 2:
		return u.recipient(ctx, args[1])
	case cmd == "-symmetric" && len(args) == 1:
		return u.symmetric(ctx)
	case cmd == "-gui" && len(args) == 1:
		return u.gui(ctx, u.newDialog())
	case !strings.HasPrefix(cmd, "-") && len(args) == 1:
		return u.generate(ctx, cmd)
	default:
		fmt.Print(usage)
		return nil
	}
}

func (u *uiContext) list(ctx context.Context) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	services := u.store.Services()
	if len(services) == 0 {
		fmt.Println("No service has been added yet.")
		return nil
	}

	fmt.Println("Available services:")
	for _, name := range services {
		fmt.Printf("* %s\n", keyColor.Sprint(name))
	}
	return nil
}

func (u *uiContext) add(ctx context.Context, name, secret string) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	name, err := u.store.Add(name, secret)
	if err != nil {
		return err
	}
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	infoColor.Printf("Service %q added.\n", name)
	return u.showCode(ctx, name)
}

func (u *uiContext) del(ctx context.Context, name string) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	if err := u.store.Delete(name); err != nil {
		u.suggest(name)
		return err
	}
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	infoColor.Printf("Service %q removed.\n", name)
	return nil
}

func (u *uiContext) secret(ctx context.Context, name string) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	secret, err := u.store.Secret(name)
	if err != nil {
		u.suggest(name)
		return err
	}

	fmt.Printf("Secret key for %q: %s\n", name, keyColor.Sprint(secret))
	return nil
}

func (u *uiContext) chpass(ctx context.Context) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	if keyID, ok := u.store.Recipient(); ok {
		return fmt.Errorf("the vault is encrypted to key %q; "+
			"passwords only apply to symmetric mode, use -symmetric first", keyID)
	}

	// gpg prompts for the new passphrase on the symmetric re-encrypt
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	infoColor.Println("Vault re-encrypted with the new password.")
	return nil
}

func (u *uiContext) recipient(ctx context.Context, keyID string) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	if err := u.store.SetRecipient(ctx, keyID); err != nil {
		return err
	}
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	infoColor.Printf("Vault is now encrypted to key %q.\n", keyID)
	return nil
}

func (u *uiContext) symmetric(ctx context.Context) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	u.store.ClearRecipient()
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	infoColor.Println("Vault is now encrypted with a password (symmetric mode).")
	return nil
}

func (u *uiContext) generate(ctx context.Context, name string) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}
	return u.showCode(ctx, name)
}

// showCode generates and prints the code for a service in the loaded store,
// copying it to the clipboard when possible.
func (u *uiContext) showCode(ctx context.Context, name string) error {
	secret, err := u.store.Secret(name)
	if err != nil {
		u.suggest(name)
		return err
	}

	code, err := u.gen.Code(ctx, secret)
	if err != nil {
		return err
	}

	fmt.Printf("TOTP code for %q: %s\n", name, keyColor.Sprint(code))
	u.copyCode(code)
	return nil
}

func (u *uiContext) copyCode(code string) {
	if u.noClip || !clip.Available() {
		return
	}
	if err := clip.Copy(code); err != nil {
		errColor.Println("Failed to copy the code to the clipboard")
		return
	}
	infoColor.Println("Code automatically copied to clipboard.")
}

// suggest prints close service-name matches after a failed lookup.
func (u *uiContext) suggest(name string) {
	matches := fuzzy.RankFindFold(name, u.store.Services())
	if len(matches) == 0 {
		return
	}
	sort.Sort(matches)

	names := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		names = append(names, m.Target)
	}
	infoColor.Printf("Did you mean: %s?\n", strings.Join(names, ", "))
}

func (u *uiContext) newDialog() dialog.Dialog {
	if bin, ok := u.tools.Path(toolbox.Zenity); ok && len(os.Getenv("DISPLAY")) != 0 {
		return dialog.NewZenity(bin, u.log)
	}
	return dialog.Terminal{}
}

const (
	guiGenerate = "Generate a code"
	guiAdd      = "Add a new service"
	guiQuit     = "Quit"
)

// gui runs the dialog-driven flow. Cancelling any dialog backs out one
// level; cancelling or quitting the main menu ends the flow normally.
func (u *uiContext) gui(ctx context.Context, dlg dialog.Dialog) error {
	if err := u.store.Load(ctx); err != nil {
		return err
	}

	for {
		choice, err := dlg.ChooseOne(ctx, "TOTP Vault",
			[]string{guiGenerate, guiAdd, guiQuit})
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case guiGenerate:
			if err := u.guiGenerate(ctx, dlg); err != nil {
				return err
			}
		case guiAdd:
			if err := u.guiAdd(ctx, dlg); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (u *uiContext) guiGenerate(ctx context.Context, dlg dialog.Dialog) error {
	services := u.store.Services()
	if len(services) == 0 {
		dlg.Info(ctx, "No service has been added yet.")
		return nil
	}

	name, err := dlg.ChooseOne(ctx, "Generate a code for", services)
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	secret, err := u.store.Secret(name)
	if err != nil {
		return err
	}
	code, err := u.gen.Code(ctx, secret)
	if err != nil {
		return err
	}

	u.copyCode(code)
	dlg.Info(ctx, fmt.Sprintf("TOTP code for %q: %s", name, code))
	return nil
}

func (u *uiContext) guiAdd(ctx context.Context, dlg dialog.Dialog) error {
	name, err := dlg.PromptText(ctx, "Service name")
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	secret, err := dlg.PromptText(ctx, "Secret key")
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}

	name, err = u.store.Add(name, secret)
	if err != nil {
		var invalid recordfmt.ValidationError
		if errors.As(err, &invalid) {
			dlg.Error(ctx, invalid.Error())
			return nil
		}
		return err
	}
	if err := u.store.Save(ctx); err != nil {
		return err
	}

	dlg.Info(ctx, fmt.Sprintf("Service %q added.", name))
	return nil
}
