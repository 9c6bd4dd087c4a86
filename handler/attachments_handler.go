package handler

import (
	"io"
	"strings"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// UploadAttachmentHandler accepts a multipart image, compresses it and
// returns the URL to embed in a memo document. The request size cap is
// enforced by middleware before the body is read.
func UploadAttachmentHandler(c *gin.Context, attachments *services.AttachmentStore) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "Missing image file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequest(c, "Failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.BadRequest(c, "Failed to read image file")
		return
	}

	url, err := attachments.Upload(c, userID, fileHeader.Filename, data)
	if err != nil {
		utils.BadRequestCode(c, "invalid-file-type")
		return
	}

	utils.Created(c, gin.H{"url": url})
}

// ServeAttachmentHandler streams a stored blob. Only the owner's blobs are
// reachable; the path prefix is checked against the authenticated user.
func ServeAttachmentHandler(c *gin.Context, attachments *services.AttachmentStore) {
	userID := c.GetString("user_id")
	path := strings.TrimPrefix(c.Param("path"), "/")

	if !strings.HasPrefix(path, "users/"+userID+"/") {
		utils.Forbidden(c, utils.ErrorMessage("permission-denied"))
		return
	}

	stream, info, err := attachments.Open(path)
	if err != nil {
		utils.InternalError(c, "Failed to open attachment")
		return
	}
	if stream == nil {
		utils.NotFound(c, "Attachment not found")
		return
	}
	defer stream.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(200, info.Size, contentType, stream, nil)
}

func DeleteAttachmentHandler(c *gin.Context, attachments *services.AttachmentStore) {
	userID := c.GetString("user_id")
	path := strings.TrimPrefix(c.Param("path"), "/")

	if err := attachments.DeleteByURL(c, userID, services.AttachmentURLPrefix+path); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Attachment deleted"})
}
