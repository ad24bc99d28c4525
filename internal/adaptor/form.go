package adaptor

import (
	"net/http"
	"net/url"

	"github.com/go-playground/form/v4"
)

var formDecoder = form.NewDecoder()

// decodeForm fills dst from the request body of a urlencoded or multipart POST.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return formDecoder.Decode(dst, r.PostForm)
}

func decodeQuery(values url.Values, dst any) error {
	return formDecoder.Decode(dst, values)
}
