package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"lguportal/portal/internal/media/sniffer"
	"lguportal/portal/internal/service"
)

// portalRequest is one of loginRequest, registerStep1Request or
// registerStep2Request, decided once from the submit fields.
type portalRequest interface {
	view() service.View
}

type loginRequest struct {
	Email    string
	Password string
}

type registerStep1Request struct {
	Email    string
	Password string
}

type registerStep2Request struct {
	service.Step2Input
	file *multipart.FileHeader
}

func (loginRequest) view() service.View         { return service.ViewLogin }
func (registerStep1Request) view() service.View { return service.ViewRegister }
func (registerStep2Request) view() service.View { return service.ViewAdditional }

var errAmbiguousSubmission = errors.New("ambiguous portal submission")

const (
	fieldSubmitRegister   = "submit_register"
	fieldSubmitAdditional = "submit_additional"
	fieldDocument         = "id_file"
)

func parsePortalRequest(c *gin.Context) (portalRequest, error) {
	register := c.PostForm(fieldSubmitRegister) != ""
	additional := c.PostForm(fieldSubmitAdditional) != ""

	switch {
	case register && additional:
		return nil, errAmbiguousSubmission
	case additional:
		req := registerStep2Request{
			Step2Input: service.Step2Input{
				FirstName:   c.PostForm("first_name"),
				MiddleName:  c.PostForm("middle_name"),
				LastName:    c.PostForm("last_name"),
				Birthday:    c.PostForm("birthday"),
				Address:     c.PostForm("address"),
				CivilStatus: c.PostForm("civil_status"),
				Role:        c.PostForm("role"),
			},
		}
		fh, err := c.FormFile(fieldDocument)
		switch {
		case err == nil:
			req.file = fh
		case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
			req.Document = &service.DocumentUpload{Err: err}
		}
		return req, nil
	case register:
		return registerStep1Request{
			Email:    c.PostForm("email"),
			Password: c.PostForm("password"),
		}, nil
	default:
		return loginRequest{
			Email:    c.PostForm("email"),
			Password: c.PostForm("password"),
		}, nil
	}
}

// openDocument turns the multipart header into an upload. The returned
// closer must be called once the upload has been consumed.
func openDocument(fh *multipart.FileHeader) (*service.DocumentUpload, io.Closer) {
	f, err := fh.Open()
	if err != nil {
		return &service.DocumentUpload{Filename: fh.Filename, Err: err}, io.NopCloser(nil)
	}
	return &service.DocumentUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: sniffer.MimeTypeFromHTTP(http.Header(fh.Header)),
		Content:     f,
	}, f
}
