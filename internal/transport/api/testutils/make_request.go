package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()

	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

// JSONBody сериализует v для тела запроса. Паникует, тк используется только в тестах с заведомо валидными данными.
func JSONBody(v any) io.Reader {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal request body: %s", err.Error()))
	}
	return bytes.NewReader(b)
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

// WithBearer добавляет заголовок авторизации. Пустой токен игнорируется.
func WithBearer(token string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		if token == "" {
			return
		}
		fn.headers["Authorization"] = "Bearer " + token
	}
}

// OverBytesUnderRunes строка из runes символов по 4 байта. Проходит проверку длины в рунах и не проходит проверку
// max_bytes с тем же лимитом.
func OverBytesUnderRunes(runes int) string {
	return strings.Repeat("😁", runes)
}
