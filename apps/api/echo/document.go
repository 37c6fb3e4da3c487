package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Emmanuel10701/maryimmaculate/core"
	"github.com/Emmanuel10701/maryimmaculate/core/document"
	"github.com/Emmanuel10701/maryimmaculate/services/metrics"
)

var errSchoolIDMismatch = "schoolId does not match the requested school"

type documentApi struct {
	svc     *document.Service
	metrics *metricsvc.Metrics
}

func registerDocumentAPI(g *echo.Group, svc *document.Service, metrics *metricsvc.Metrics) {
	api := documentApi{
		svc:     svc,
		metrics: metrics,
	}

	sg := g.Group("/schools")
	sg.POST("", api.create)
	sg.GET("", api.query)

	dg := sg.Group("/:id")
	dg.GET("/documents", api.retrieve)
	dg.POST("/documents", api.submit)

	g.GET("/fee-presets", api.feePresets)
}

// Handlers

func (api *documentApi) create(ctx echo.Context) error {
	var data document.NewSchoolDocuments
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchoolDocuments")
	}
	data.SchoolName = core.CleanString(data.SchoolName)
	if err := core.Validate.Struct(data); err != nil {
		return err
	}

	doc, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating school documents")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *documentApi) query(ctx echo.Context) error {
	docs, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying school documents")
	}
	if docs == nil {
		docs = []document.SchoolDocuments{}
	}
	return ctx.JSON(http.StatusOK, docs)
}

func (api *documentApi) retrieve(ctx echo.Context) error {
	doc, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting school documents")
	}
	return ctx.JSON(http.StatusOK, doc)
}

// submit applies one multipart save request (the diff assembled by the
// editor) to the stored record.
func (api *documentApi) submit(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a multipart form is expected")
	}

	sub, err := document.ParseSubmission(form)
	if err != nil {
		api.failure(metricsvc.ReasonValidation)
		return errors.Wrap(err, "parsing submission")
	}
	if sub.SchoolID != "" && sub.SchoolID != ctx.Param("id") {
		api.failure(metricsvc.ReasonValidation)
		return core.NewValidationError(nil, core.FieldError{Field: "schoolId", Error: errSchoolIDMismatch})
	}

	doc, err := api.svc.Apply(ctx.Param("id"), sub)
	if err != nil {
		api.failure(failureReason(err))
		return errors.Wrap(err, "applying submission")
	}

	if api.metrics != nil {
		api.metrics.SubmissionsTotal.Inc()
		for _, file := range sub.Files {
			api.metrics.SubmissionBytes.Observe(float64(file.SizeBytes))
		}
	}
	return ctx.JSON(http.StatusOK, doc)
}

func (api *documentApi) feePresets(ctx echo.Context) error {
	presets := make(map[string][]document.FeeCategory, len(document.DistributionFields))
	for slotKey, distField := range document.DistributionFields {
		presets[distField] = document.PresetFor(slotKey)
	}
	return ctx.JSON(http.StatusOK, presets)
}

func (api *documentApi) failure(reason string) {
	if api.metrics != nil {
		api.metrics.Failure(reason)
	}
}

func failureReason(err error) string {
	switch errors.Cause(err).(type) {
	case *document.BudgetExceededError:
		return metricsvc.ReasonBudget
	case *document.FileRejectedError:
		return metricsvc.ReasonRejectedFile
	case *core.ValidationError:
		return metricsvc.ReasonValidation
	}
	return metricsvc.ReasonOther
}
