package charcountd

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/valyala/fasthttp"
)

var (
	// Precompute the reflect.Type of error and fasthttp.RequestCtx
	typeOfError   = reflect.TypeOf((*error)(nil)).Elem()
	typeOfRequest = reflect.TypeOf((*fasthttp.RequestCtx)(nil)).Elem()
)

// APIServer - main structure
type APIServer struct {
	services *ServiceMap
}

// ServiceMap is a registry for services. Methods are addressed by their
// wire name, so dispatch is a single map lookup defaulting to the
// method-not-found branch.
type ServiceMap struct {
	mutex    sync.Mutex
	services map[string]*Service
	methods  map[string]*methodBinding
}

// Service - sub struct
type Service struct {
	name     string                    // name of service
	rcvr     reflect.Value             // receiver of methods for the service
	rcvrType reflect.Type              // type of the receiver
	methods  map[string]*ServiceMethod // registered methods, keyed by wire name
}

// ServiceMethod - sub struct
type ServiceMethod struct {
	method    reflect.Method // receiver method
	argsType  reflect.Type   // type of the request argument
	replyType reflect.Type   // type of the response argument
}

// methodBinding ties a wire method name to its service receiver.
type methodBinding struct {
	service *Service
	spec    *ServiceMethod
}

// HasMethod returns true if the given wire method name is registered.
func (as *APIServer) HasMethod(method string) bool {
	if _, _, err := as.services.get(method); err == nil {
		return true
	}
	return false
}

// Methods returns the sorted wire names of all registered methods.
func (as *APIServer) Methods() []string {
	as.services.mutex.Lock()
	names := make([]string, 0, len(as.services.methods))
	for name := range as.services.methods {
		names = append(names, name)
	}
	as.services.mutex.Unlock()
	sort.Strings(names)
	return names
}

// RegisterService adds a new service to the server.
//
// Exported methods of the receiver are registered under the snake_case
// form of their Go name ("CharCount" becomes "char_count"). When the name
// parameter is non-empty it is used as a prefix, giving "name.method"
// wire names.
//
// Methods from the receiver will be extracted if these rules are satisfied:
//
//   - The receiver is exported (begins with an upper case letter) or local
//     (defined in the package registering the service).
//   - The method name is exported.
//   - The method has three arguments: *fasthttp.RequestCtx, *args, *reply.
//   - All three arguments are pointers.
//   - The second and third arguments are exported or local.
//   - The method has return type error.
//
// All other methods are ignored.
func (as *APIServer) RegisterService(receiver interface{}, name string) error {
	return as.services.register(receiver, name)
}

// get returns the binding for a wire method name.
func (m *ServiceMap) get(method string) (*Service, *ServiceMethod, error) {
	m.mutex.Lock()
	binding := m.methods[method]
	m.mutex.Unlock()
	if binding == nil {
		err := fmt.Errorf("api: can't find method %q", method)
		return nil, nil, err
	}
	return binding.service, binding.spec, nil
}

// register adds a new service using reflection to extract its methods.
func (m *ServiceMap) register(rcvr interface{}, name string) error {
	// Setup service.
	s := &Service{
		name:     name,
		rcvr:     reflect.ValueOf(rcvr),
		rcvrType: reflect.TypeOf(rcvr),
		methods:  make(map[string]*ServiceMethod),
	}

	if name == "" {
		typeName := reflect.Indirect(s.rcvr).Type().Name()
		if !isExported(typeName) {
			return fmt.Errorf("api: type %q is not exported", typeName)
		}
	}

	// Setup methods.
	for i := 0; i < s.rcvrType.NumMethod(); i++ {
		method := s.rcvrType.Method(i)

		mtype := method.Type
		// Method must be exported.
		if method.PkgPath != "" {
			continue
		}
		// Method needs four ins: receiver, *fasthttp.RequestCtx, *args, *reply.
		if mtype.NumIn() != 4 {
			continue
		}

		// First argument must be a pointer and must be fasthttp.RequestCtx.
		reqType := mtype.In(1)
		if reqType.Kind() != reflect.Ptr || reqType.Elem() != typeOfRequest {
			continue
		}
		// Second argument must be a pointer and must be exported.
		args := mtype.In(2)
		if args.Kind() != reflect.Ptr || !isExportedOrBuiltin(args) {
			continue
		}
		// Third argument must be a pointer and must be exported.
		reply := mtype.In(3)
		if reply.Kind() != reflect.Ptr || !isExportedOrBuiltin(reply) {
			continue
		}
		// Method needs one out: error.
		if mtype.NumOut() != 1 {
			continue
		}
		if returnType := mtype.Out(0); returnType != typeOfError {
			continue
		}

		s.methods[wireName(s.name, method.Name)] = &ServiceMethod{
			method:    method,
			argsType:  args.Elem(),
			replyType: reply.Elem(),
		}

	}
	if len(s.methods) == 0 {
		return fmt.Errorf("api: %q has no exported methods of suitable type",
			s.rcvrType.String())
	}
	// Add to the maps.
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.services == nil {
		m.services = make(map[string]*Service)
		m.methods = make(map[string]*methodBinding)
	} else if _, ok := m.services[s.rcvrType.String()]; ok {
		return fmt.Errorf("api: service already defined: %q", s.rcvrType.String())
	}
	for wire := range s.methods {
		if _, ok := m.methods[wire]; ok {
			return fmt.Errorf("api: method already defined: %q", wire)
		}
	}
	m.services[s.rcvrType.String()] = s
	for wire, spec := range s.methods {
		m.methods[wire] = &methodBinding{service: s, spec: spec}
	}
	return nil
}

// wireName builds the RPC method name for an exported Go method name.
func wireName(service, method string) string {
	snake := snakeCase(method)
	if service == "" {
		return snake
	}
	return service + "." + snake
}

// snakeCase converts an exported Go name to its snake_case wire form.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isExported returns true of a string is an exported (upper case) name.
func isExported(name string) bool {
	runez, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(runez)
}

// isExportedOrBuiltin returns true if a type is exported or a builtin.
func isExportedOrBuiltin(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	// PkgPath will be non-empty even for an exported type,
	// so we need to check the type name as well.
	return isExported(t.Name()) || t.PkgPath() == ""
}

// NewServer returns a new RPC server.
func NewServer() *APIServer {
	return &APIServer{
		services: new(ServiceMap),
	}
}

// APIHandler handles one RPC request, dispatches it and writes the result.
//
// Every dispatcher outcome, success or JSON-RPC error envelope, is written
// with HTTP 200; only a body that fails to parse as JSON is rejected with
// HTTP 400 before dispatch. The request id and jsonrpc version are echoed
// unchanged on every path.
func (as *APIServer) APIHandler(ctx *fasthttp.RequestCtx) {
	req, errRead := ReadRequest(ctx)
	if errRead != nil {
		observeRPC(unknownMethod, "parse_error")
		WriteResponse(ctx, fasthttp.StatusBadRequest, &ServerResponse{
			Error: &Error{
				Code:    JErrorParse,
				Message: "Parse error",
			},
			Version: Version,
		})
		return
	}

	serviceSpec, methodSpec, errGet := as.services.get(req.Method)

	if errGet != nil {
		observeRPC(unknownMethod, "method_not_found")
		WriteResponse(ctx, fasthttp.StatusOK, &ServerResponse{
			Error: &Error{
				Code:    JErrorNoMethod,
				Message: MsgMethodNotFound,
			},
			ID:      req.ID,
			Version: req.Version,
		})
		return
	}

	// Decode the args.
	args := reflect.New(methodSpec.argsType)
	if errRead := ReadRequestParams(req, args.Interface()); errRead != nil {
		observeRPC(req.Method, "invalid_params")
		WriteResponse(ctx, fasthttp.StatusOK, &ServerResponse{
			Error: &Error{
				Code:    JErrorInvalidParams,
				Message: "Invalid params",
				Data:    errRead.Error(),
			},
			ID:      req.ID,
			Version: req.Version,
		})
		return
	}

	// Call the service method.
	reply := reflect.New(methodSpec.replyType)
	errValue := methodSpec.method.Func.Call([]reflect.Value{
		serviceSpec.rcvr,
		reflect.ValueOf(ctx),
		args,
		reply,
	})

	if errInter := errValue[0].Interface(); errInter != nil {
		errResult, ok := errInter.(*Error)
		if !ok {
			errResult = &Error{
				Code:    JErrorInternal,
				Message: errInter.(error).Error(),
			}
		}
		observeRPC(req.Method, "error")
		WriteResponse(ctx, fasthttp.StatusOK, &ServerResponse{
			Error:   errResult,
			ID:      req.ID,
			Version: req.Version,
		})
		return
	}

	observeRPC(req.Method, "ok")
	WriteResponse(ctx, fasthttp.StatusOK, &ServerResponse{
		ID:      req.ID,
		Version: req.Version,
		Result:  reply.Interface(),
	})
}
