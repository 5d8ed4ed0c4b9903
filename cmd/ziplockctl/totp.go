package ziplockctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

var (
	totpQR     bool
	totpQRFile string
)

var totpCmd = &cobra.Command{
	Use:   "totp [credential-id]",
	Short: "Show the current TOTP code for a credential's totp_secret field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveRepoPath()
		if err != nil {
			return err
		}
		m, err := openForSession(path)
		if err != nil {
			return err
		}
		defer m.CloseRepository(false)

		rec, err := m.GetCredentialReadOnly(args[0])
		if err != nil {
			return err
		}

		var secretField model.CredentialField
		var found bool
		for _, f := range rec.Fields {
			if f.Type.Equal(model.TOTPSecret) {
				secretField = f
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("credential %q has no totp_secret field", rec.Title)
		}

		code, err := totp.GenerateCode(strings.ToUpper(strings.ReplaceAll(secretField.Value, " ", "")), time.Now())
		if err != nil {
			return fmt.Errorf("generate totp code: %w", err)
		}
		fmt.Printf("%s\n", code)

		if totpQR {
			uri := fmt.Sprintf("otpauth://totp/%s?secret=%s&issuer=ziplockctl",
				strings.ReplaceAll(rec.Title, " ", "%20"), secretField.Value)

			if totpQRFile != "" {
				png, err := qrcode.Encode(uri, qrcode.Medium, 256)
				if err != nil {
					return fmt.Errorf("encode qr png: %w", err)
				}
				if err := writeFile(totpQRFile, png); err != nil {
					return err
				}
				fmt.Printf("wrote QR code to %s\n", totpQRFile)
			} else {
				qrterminal.Generate(uri, qrterminal.M, cmd.OutOrStdout())
			}
		}
		return nil
	},
}

func init() {
	totpCmd.Flags().BoolVar(&totpQR, "qr", false, "also render an otpauth:// QR code")
	totpCmd.Flags().StringVar(&totpQRFile, "qr-file", "", "write the QR code as a PNG to this path instead of the terminal")
}
