package handlers

import (
	"errors"
	"net/http"

	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WorkbookFormField is the multipart field carrying an uploaded workbook.
const WorkbookFormField = "file"

// WorkbookHandler transfers the store as xlsx.
type WorkbookHandler struct {
	workbookService services.WorkbookService
}

func NewWorkbookHandler(ws services.WorkbookService) *WorkbookHandler {
	return &WorkbookHandler{workbookService: ws}
}

// DownloadWorkbook returns the full store as GameBus_DB.xlsx.
func (h *WorkbookHandler) DownloadWorkbook(c *gin.Context) {
	data, err := h.workbookService.Download()
	if err != nil {
		utils.LogError(err, "DownloadWorkbook: Error from workbookService.Download")
		utils.RespondInternal(c, "Failed to export workbook.")
		return
	}
	attachment(c, "GameBus_DB.xlsx", contentTypeXLSX, data)
}

// DownloadSheet returns one sheet as its own workbook.
func (h *WorkbookHandler) DownloadSheet(c *gin.Context) {
	name := c.Param("name")
	data, err := h.workbookService.DownloadSheet(name)
	if err != nil {
		if errors.Is(err, services.ErrSheetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sheet not found.", err.Error()))
			return
		}
		utils.LogError(err, "DownloadSheet: Error from workbookService.DownloadSheet", map[string]interface{}{"sheet": name})
		utils.RespondInternal(c, "Failed to export sheet.")
		return
	}
	attachment(c, name+".xlsx", contentTypeXLSX, data)
}

// UploadWorkbook replaces the store with a multipart-uploaded xlsx file.
func (h *WorkbookHandler) UploadWorkbook(c *gin.Context) {
	fh, err := c.FormFile(WorkbookFormField)
	if err != nil {
		utils.RespondValidationFailed(c, "multipart field '"+WorkbookFormField+"' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.LogError(err, "UploadWorkbook: failed to open upload")
		utils.RespondInternal(c, "Failed to read upload.")
		return
	}
	defer f.Close()

	if err := h.workbookService.Upload(c.Request.Context(), f); err != nil {
		if errors.Is(err, services.ErrInvalidWorkbook) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Uploaded file is not a valid xlsx workbook.", err.Error()))
			return
		}
		utils.LogError(err, "UploadWorkbook: Error from workbookService.Upload")
		utils.RespondInternal(c, "Failed to replace workbook.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workbook replaced.", "filename": fh.Filename})
}
