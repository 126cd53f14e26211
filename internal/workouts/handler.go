package workouts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/workouts/internal/telemetry/metrics"
	"github.com/2beens/workouts/internal/telemetry/tracing"
	"github.com/2beens/workouts/internal/web"
	"github.com/2beens/workouts/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Overview(ctx context.Context, filter Filter) (*Overview, error)
	Get(ctx context.Context, id int) (*Workout, error)
	Create(ctx context.Context, in Input) (*Workout, error)
	Update(ctx context.Context, id int, in Input) (*Workout, error)
	Delete(ctx context.Context, id int) error
	Export(ctx context.Context, w io.Writer) (int, error)
}

type pageRenderer interface {
	Render(w io.Writer, page string, data any) error
}

const exportFileName = "workouts.csv"

type Handler struct {
	service  workoutsService
	renderer pageRenderer
	metrics  *metrics.Manager
}

func NewHandler(
	service workoutsService,
	renderer pageRenderer,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		metrics:  metrics,
	}
}

// SetupRoutes registers the workouts pages. The mutation middlewares (e.g. rate limiting)
// only wrap the POST routes.
func (handler *Handler) SetupRoutes(r *mux.Router, mutationMiddlewares ...mux.MiddlewareFunc) {
	r.HandleFunc("/", handler.HandleIndex).Methods("GET").Name("list-workouts")
	r.HandleFunc("/export", handler.HandleExport).Methods("GET").Name("export-workouts")
	r.HandleFunc("/workouts/new", handler.HandleNew).Methods("GET").Name("new-workout-form")
	r.HandleFunc("/workouts/{id:[0-9]+}/edit", handler.HandleEdit).Methods("GET").Name("edit-workout-form")

	mutations := r.Methods("POST").Subrouter()
	mutations.Use(mutationMiddlewares...)
	mutations.HandleFunc("/workouts", handler.HandleCreate).Name("create-workout")
	mutations.HandleFunc("/workouts/{id:[0-9]+}", handler.HandleUpdate).Name("update-workout")
	mutations.HandleFunc("/workouts/{id:[0-9]+}/delete", handler.HandleDelete).Name("delete-workout")
}

type filterForm struct {
	From string
	To   string
	Q    string
	Type string
}

type indexPage struct {
	Filter       filterForm
	Workouts     []Workout
	Chart        ChartData
	ChartMax     int
	TotalMinutes int
	Week         WeeklyProgress
}

type formPage struct {
	Action  string
	Submit  string
	Workout Workout
}

func (handler *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.index")
	defer span.End()

	query := r.URL.Query()
	filter, err := ParseFilter(query)
	if err != nil {
		log.Debugf("list workouts, bad filter: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	overview, err := handler.service.Overview(ctx, filter)
	if err != nil {
		log.Errorf("list workouts: %s", err)
		http.Error(w, "failed to list workouts", http.StatusInternalServerError)
		return
	}

	chartMax := 0
	for _, minutes := range overview.Chart.Data {
		chartMax = max(chartMax, minutes)
	}

	handler.render(w, web.PageIndex, indexPage{
		Filter: filterForm{
			From: query.Get("from"),
			To:   query.Get("to"),
			Q:    query.Get("q"),
			Type: query.Get("type"),
		},
		Workouts:     overview.Workouts,
		Chart:        overview.Chart,
		ChartMax:     chartMax,
		TotalMinutes: overview.TotalMinutes,
		Week:         overview.Week,
	})
}

func (handler *Handler) HandleNew(w http.ResponseWriter, _ *http.Request) {
	handler.render(w, web.PageNew, formPage{
		Action: "/workouts",
		Submit: "Create",
	})
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("create workout failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	in, err := ParseInput(r.PostForm)
	if err != nil {
		handler.writeError(w, "create workout", err)
		return
	}

	workout, err := handler.service.Create(ctx, in)
	if err != nil {
		handler.writeError(w, "create workout", err)
		return
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	handler.metrics.WorkoutMutated(metrics.OpCreate)
	log.Debugf("new workout added: %d [%s] [%d min]", workout.ID, workout.Type, workout.Duration)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.edit")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("workout.id", id))

	workout, err := handler.service.Get(ctx, id)
	if err != nil {
		handler.writeError(w, "get workout", err)
		return
	}

	handler.render(w, web.PageEdit, formPage{
		Action:  "/workouts/" + strconv.Itoa(workout.ID),
		Submit:  "Save",
		Workout: *workout,
	})
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("workout.id", id))

	if err := r.ParseForm(); err != nil {
		log.Errorf("update workout %d failed, parse form error: %s", id, err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	in, err := ParseInput(r.PostForm)
	if err != nil {
		handler.writeError(w, "update workout", err)
		return
	}

	if _, err := handler.service.Update(ctx, id, in); err != nil {
		handler.writeError(w, "update workout", err)
		return
	}

	handler.metrics.WorkoutMutated(metrics.OpUpdate)
	log.Debugf("workout updated: %d", id)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("workout.id", id))

	if err := handler.service.Delete(ctx, id); err != nil {
		handler.writeError(w, "delete workout", err)
		return
	}

	handler.metrics.WorkoutMutated(metrics.OpDelete)
	log.Debugf("workout deleted: %d", id)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	var buf bytes.Buffer
	count, err := handler.service.Export(ctx, &buf)
	if err != nil {
		log.Errorf("export workouts: %s", err)
		http.Error(w, "failed to export workouts", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("workouts.count", count))
	handler.metrics.CounterExports.Inc()

	pkg.SetAttachmentHeaders(w, pkg.ContentType.CSV, exportFileName)
	pkg.WriteResponseBytesOK(w, "", buf.Bytes())
}

func (handler *Handler) render(w http.ResponseWriter, page string, data any) {
	var buf bytes.Buffer
	if err := handler.renderer.Render(&buf, page, data); err != nil {
		log.Errorf("render %s: %s", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteHTMLResponseOK(w, buf.Bytes())
}

// writeError maps the service errors to a response: not found -> 404, invalid input -> 400,
// anything else -> 500.
func (handler *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrWorkoutNotFound):
		log.Debugf("%s: %s", op, err)
		pkg.WriteResponse(w, pkg.ContentType.Text, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func workoutID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	// ids are SERIAL, nothing beyond int32 can exist
	id, err := strconv.ParseInt(idStr, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		pkg.WriteResponse(w, pkg.ContentType.Text, "Not found", http.StatusNotFound)
		return 0, false
	}
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return int(id), true
}
