package http

import (
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/flash"

	"linkhub/internal/transfer"
)

// TransferExportAction streams a full JSON export as a download.
func TransferExportAction(ctx *cartridge.Context) error {
	data, err := transfer.Export(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to export data", slog.Any("error", err))
		return fiber.NewError(fiber.StatusInternalServerError, "Export failed")
	}

	filename := fmt.Sprintf("linkhub-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	ctx.Set("Content-Type", "application/json")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}

// TransferImportAction restores an uploaded JSON export.
func TransferImportAction(ctx *cartridge.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		flash.SetFlash(ctx.Ctx, "error", "No import file provided")
		return ctx.Redirect("/admin/profile", fiber.StatusFound)
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.Logger.Error("Failed to open import upload", slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Could not read import file")
		return ctx.Redirect("/admin/profile", fiber.StatusFound)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ctx.Logger.Error("Failed to read import upload", slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Could not read import file")
		return ctx.Redirect("/admin/profile", fiber.StatusFound)
	}

	if err := transfer.Import(ctx.DBManager, ctx.Logger, data); err != nil {
		ctx.Logger.Error("Failed to import data", slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Import failed: the file is not a valid export")
		return ctx.Redirect("/admin/profile", fiber.StatusFound)
	}

	ctx.Logger.Info("Data import completed")
	flash.SetFlash(ctx.Ctx, "success", "Data imported")
	return ctx.Redirect("/admin/profile", fiber.StatusFound)
}
