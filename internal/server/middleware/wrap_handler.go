package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/labstack/echo/v4"
)

// XDataStale is set on responses carrying a cached snapshot that the latest
// fetch failed to replace.
const XDataStale = "x-data-stale"

// Warner is implemented by results that can be served while degraded. A
// non-empty Warning is surfaced in the envelope and the XDataStale header.
type Warner interface {
	Warning() string
}

var (
	contextType = reflect.TypeOf((*echo.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// WrapHandler turns func(echo.Context, Req) (Res, error) into an echo
// handler. Req is bound and validated from the request and Res is written
// inside the Response envelope. It panics on any other signature so
// mistakes surface when routes are registered.
func WrapHandler(f any) echo.HandlerFunc {
	handler, err := wrapHandler(f)
	if err != nil {
		panic(err)
	}
	return handler
}

func wrapHandler(f any) (echo.HandlerFunc, error) {
	fVal := reflect.ValueOf(f)
	if fVal.Kind() != reflect.Func {
		return nil, fmt.Errorf("wrap handler: %T is not a function", f)
	}
	fTyp := fVal.Type()
	name := runtime.FuncForPC(fVal.Pointer()).Name()

	switch {
	case fTyp.NumIn() != 2:
		return nil, fmt.Errorf("[%s] want 2 arguments, got %d", name, fTyp.NumIn())
	case !fTyp.In(0).Implements(contextType):
		return nil, fmt.Errorf("[%s] first argument must be echo.Context", name)
	case fTyp.In(1).Kind() != reflect.Struct:
		return nil, fmt.Errorf("[%s] second argument must be a struct, got %v", name, fTyp.In(1).Kind())
	case fTyp.NumOut() != 2:
		return nil, fmt.Errorf("[%s] want 2 results, got %d", name, fTyp.NumOut())
	case fTyp.Out(1) != errorType:
		return nil, fmt.Errorf("[%s] last result must be error, got %v", name, fTyp.Out(1))
	}
	reqType := fTyp.In(1)

	return func(c echo.Context) error {
		req := reflect.New(reqType)
		if err := BindAndValidate(c, req.Interface()); err != nil {
			return err
		}

		out := fVal.Call([]reflect.Value{reflect.ValueOf(c), req.Elem()})
		if err, _ := out[1].Interface().(error); err != nil {
			return err
		}

		data := out[0].Interface()
		resp := &Response{
			Status:  http.StatusOK,
			Success: true,
			Data:    data,
		}
		if w, ok := data.(Warner); ok && !out[0].IsZero() {
			if warning := w.Warning(); warning != "" {
				resp.Warning = warning
				c.Response().Header().Set(XDataStale, "true")
			}
		}
		return c.JSON(resp.Status, resp)
	}, nil
}
