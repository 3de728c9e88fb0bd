package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/phaeton/pkg/http/router/routerhelper"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type graphAPI struct {
	graphService GraphService
	log          *zap.Logger
}

func New(graphService GraphService, log *zap.Logger) *graphAPI {
	return &graphAPI{
		graphService: graphService,
		log:          log,
	}
}

func (api *graphAPI) Routes(group *helper.RouteGroup) {
	group.GET("/graph/summary", api.summary)
	group.GET("/vertices/:id", api.vertex)
	group.GET("/edges/:id", api.edge)
	group.GET("/nearestVertex", api.nearestVertex)
}

func (api *graphAPI) summary(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": api.graphService.Summary()}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *graphAPI) vertex(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := strconv.ParseInt(p.ByName("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("vertex id must be a valid int"))
		return
	}

	v, err := api.graphService.GetVertex(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewVertexResponse(v)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *graphAPI) edge(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := strconv.ParseInt(p.ByName("id"), 10, 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("edge id must be a valid int"))
		return
	}

	detail, err := api.graphService.GetEdge(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewEdgeResponse(detail)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *graphAPI) nearestVertex(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestVertexRequest
		err     error
	)

	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	request.Radius = viper.GetFloat64("SEARCH_RADIUS_KM")
	if radius := query.Get("radius"); radius != "" {
		request.Radius, err = strconv.ParseFloat(radius, 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("radius must be a valid float"))
			return
		}
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	v, dist, err := api.graphService.NearestVertex(request.Lat, request.Lon, request.Radius)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNearestVertexResponse(v, dist)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
