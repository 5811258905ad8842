package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"frutas/internal/infra/persistence/model"
	"frutas/internal/usecase"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the loyalty schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var db *gorm.DB

		return withApp(cmd.Context(), func() error {
			if err := db.WithContext(cmd.Context()).AutoMigrate(model.All()...); err != nil {
				return errors.Wrap(err, "failed to migrate schema")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")

			return nil
		}, &db)
	},
}

var seedMenuCmd = &cobra.Command{
	Use:   "seed-menu FILE",
	Short: "Upsert the menu catalog from a TOML file",
	Long: `Each [[item]] table needs category, name, co2_saved, water_saved and
land_saved. Items are matched by category and name, so re-running the
same file is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := loadMenuFile(args[0])
		if err != nil {
			return err
		}

		var menuUC usecase.MenuUsecase

		return withApp(cmd.Context(), func() error {
			count, err := menuUC.SeedMenuItems(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d menu items\n", count)

			return nil
		}, &menuUC)
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize a cart into an unclaimed receipt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		items, _ := cmd.Flags().GetStringArray("item")
		qrPath, _ := cmd.Flags().GetString("qr")

		lines, err := parseLines(items)
		if err != nil {
			return err
		}

		var receiptUC usecase.ReceiptUsecase

		return withApp(cmd.Context(), func() error {
			receipt, err := receiptUC.FinalizeReceipt(cmd.Context(), lines)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "code:   %s\n", receipt.Code)
			fmt.Fprintf(out, "points: %d\n", receipt.PointsEarned)
			fmt.Fprintf(out, "co2:    %s kg\n", receipt.TotalCO2Saved.StringFixed(2))
			fmt.Fprintf(out, "water:  %s L\n", receipt.TotalWaterSaved.String())
			fmt.Fprintf(out, "land:   %s m2\n", receipt.TotalLandSaved.StringFixed(2))

			if qrPath == "" {
				return nil
			}

			png, err := receiptUC.ReceiptQR(cmd.Context(), receipt.Code)
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrPath, png, 0o644); err != nil {
				return errors.Wrap(err, "failed to write QR code")
			}
			fmt.Fprintf(out, "qr:     %s\n", qrPath)

			return nil
		}, &receiptUC)
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Credit a receipt to a customer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		code, _ := cmd.Flags().GetString("code")
		rawUser, _ := cmd.Flags().GetString("user")

		userID, err := uuid.Parse(rawUser)
		if err != nil {
			return errors.Wrapf(err, "invalid user id %q", rawUser)
		}

		var receiptUC usecase.ReceiptUsecase

		return withApp(cmd.Context(), func() error {
			result, err := receiptUC.ClaimReceipt(cmd.Context(), code, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "claimed %s: +%d points, balance %d\n",
				result.Receipt.Code, result.Receipt.PointsEarned, result.NewBalance)

			return nil
		}, &receiptUC)
	},
}

type menuFile struct {
	Items []menuFileItem `toml:"item"`
}

type menuFileItem struct {
	Category   string          `toml:"category"`
	Name       string          `toml:"name"`
	CO2Saved   decimal.Decimal `toml:"co2_saved"`
	WaterSaved decimal.Decimal `toml:"water_saved"`
	LandSaved  decimal.Decimal `toml:"land_saved"`
}

func loadMenuFile(path string) ([]*usecase.MenuItemInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read menu file")
	}

	inputs, err := decodeMenu(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	return inputs, nil
}

// decodeMenu rejects keys the catalog does not know so typos surface before seeding.
func decodeMenu(data string) ([]*usecase.MenuItemInput, error) {
	var file menuFile
	meta, err := toml.Decode(data, &file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown key %s", undecoded[0])
	}

	inputs := make([]*usecase.MenuItemInput, 0, len(file.Items))
	for _, item := range file.Items {
		inputs = append(inputs, &usecase.MenuItemInput{
			Category:   item.Category,
			Name:       item.Name,
			CO2Saved:   item.CO2Saved,
			WaterSaved: item.WaterSaved,
			LandSaved:  item.LandSaved,
		})
	}

	return inputs, nil
}

// parseLines accepts id:qty pairs; quantity defaults to 1 when omitted.
func parseLines(items []string) ([]usecase.ReceiptLineInput, error) {
	lines := make([]usecase.ReceiptLineInput, 0, len(items))
	for _, item := range items {
		rawID, rawQty, hasQty := strings.Cut(strings.TrimSpace(item), ":")

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid menu item id in %q", item)
		}

		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(rawQty)
			if err != nil {
				return nil, errors.Errorf("invalid quantity in %q", item)
			}
		}

		lines = append(lines, usecase.ReceiptLineInput{MenuItemID: id, Quantity: qty})
	}

	return lines, nil
}
