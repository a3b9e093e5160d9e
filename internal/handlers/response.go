package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"crowdfund/internal/apperr"
	"crowdfund/internal/auth"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {"error", "code"} with the mapped status
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"error": apperr.MessageOf(err),
		"code":  code,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
		"code":  apperr.CodeValidation,
	})
}

// currentUser returns the authenticated user ID or writes a 401
func currentUser(c *gin.Context) (uint, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
			"code":  apperr.CodeUnauthorized,
		})
		return 0, false
	}
	return userID, true
}

// readObjects loads the multipart files under field, at most max of them
func readObjects(form *multipart.Form, field string, max int) ([]blobstore.Object, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	if len(headers) > max {
		return nil, apperr.New(apperr.CodeValidation, "at most %d %s allowed", max, field)
	}

	objs := make([]blobstore.Object, 0, len(headers))
	for _, fh := range headers {
		obj, err := readObject(fh)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func readObject(fh *multipart.FileHeader) (blobstore.Object, error) {
	f, err := fh.Open()
	if err != nil {
		return blobstore.Object{}, apperr.Wrap(apperr.CodeValidation, err, "failed to open %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return blobstore.Object{}, apperr.Wrap(apperr.CodeValidation, err, "failed to read %s", fh.Filename)
	}
	return blobstore.Object{Filename: fh.Filename, Data: data}, nil
}

// optionalObject reads a single optional file field
func optionalObject(c *gin.Context, field string) (*blobstore.Object, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// no file, or not a multipart request
		return nil, nil
	}
	obj, err := readObject(fh)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}
