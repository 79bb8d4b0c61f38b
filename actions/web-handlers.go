package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/majormguarde-bit/megre-guard-db/config"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseSettings struct {
	Status   WebServerResponse `json:"status"`
	Message  string            `json:"message,omitempty"`
	Settings map[string]string `json:"settings"`
}

type ResponseTransferList struct {
	Status    WebServerResponse  `json:"status"`
	Transfers []TransferListItem `json:"transfers"`
}

type TransferListItem struct {
	TransferId    string            `json:"transferId"`
	Table         string            `json:"table"`
	TransferState transfer.RunState `json:"transferState"`
}

type ResponseTransferStats struct {
	Status       WebServerResponse `json:"status"`
	Message      string            `json:"message"`
	StatsSummary interface{}       `json:"transferStats"`
}

type ResponseTransferStatus struct {
	Status         WebServerResponse  `json:"status"`
	Message        string             `json:"message"`
	TransferStatus transfer.RunStatus `json:"transferStatus"`
	LastProgress   *transfer.Event    `json:"lastProgress,omitempty"`
}

type ResponseTransferStop struct {
	Status     WebServerResponse `json:"status"`
	Message    string            `json:"message"`
	TransferId string            `json:"transferId"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default: // already stopping.
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// requestFromHttp reads a transfer request from a JSON body or from form fields.
func requestFromHttp(r *http.Request) (transfer.Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		req := transfer.Request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, &transfer.ValidationError{Msg: "error unmarshalling JSON", Err: err}
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return transfer.Request{}, &transfer.ValidationError{Msg: "error parsing form", Err: err}
	}
	return transfer.RequestFromForm(r.PostFormValue)
}

// GetHandlerTransferLaunch runs a transfer and streams its events as NDJSON, one flush per event.
// The run is cancelled if the client goes away; its events are still drained so it can roll back.
func GetHandlerTransferLaunch(log logger.Logger, e *transfer.Engine, runs *transfer.SafeMapRunInfo, settings SettingsSaver) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", constants.ContentTypeNdJson)
		req, err := requestFromHttp(r)
		if err != nil {
			log.Info("bad transfer request: ", err)
			w.WriteHeader(http.StatusBadRequest)
			_ = transfer.WriteEvent(w, transfer.NewErrorEvent(err.Error()))
			return
		}
		if settings != nil {
			if err := settings.SaveLastTransfer(req.FormValues()); err != nil {
				log.Warn("unable to save settings: ", err)
			}
		}
		id, events := runs.Launch(r.Context(), e, req)
		log.Info("launched transfer ", id, " of table ", req.Table)
		rc := http.NewResponseController(w)
		_ = rc.SetWriteDeadline(time.Time{}) // the stream lasts as long as the run.
		w.Header().Set(constants.HeaderTransferId, id)
		w.WriteHeader(http.StatusOK)
		var writeErr error
		for ev := range events {
			if writeErr != nil {
				continue
			}
			if writeErr = transfer.WriteEvent(w, ev); writeErr == nil {
				writeErr = rc.Flush()
			}
			if writeErr != nil {
				log.Warn("transfer ", id, ": client write failed, waiting for the run to end: ", writeErr)
			}
		}
	}
}

// GetHandlerSettings returns the last used transfer request fields, or the defaults if none were saved.
func GetHandlerSettings(log logger.Logger, settings SettingsLoader) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var m map[string]string
		var err error
		if settings != nil {
			m, err = settings.LoadLastTransfer()
		}
		if settings == nil || errors.As(err, &config.FileNotFoundError{}) {
			m, err = transfer.DefaultFormValues(), nil
		}
		if err != nil {
			log.Error(err)
			w.WriteHeader(http.StatusInternalServerError)
			respond(log, w, ResponseSettings{Status: Error, Message: err.Error(), Settings: transfer.DefaultFormValues()})
			return
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSettings{Status: Okay, Settings: m})
	}
}

func GetHandlerTransferStop(log logger.Logger, runs *transfer.SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)[muxVarTransferId]
		_, ok := runs.Load(id)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request to stop transfer ", id, " that doesn't exist.")
			respond(log, w, ResponseTransferStop{Status: Error, Message: "transfer does not exist", TransferId: id})
			return
		}
		w.WriteHeader(http.StatusOK)
		if !runs.Stop(id) {
			log.Info("HTTP request to stop transfer ", id, " which has already finished.")
			respond(log, w, ResponseTransferStop{Status: Error, Message: "transfer already ended", TransferId: id})
			return
		}
		log.Info("Stopping transfer ", id)
		respond(log, w, ResponseTransferStop{Status: Okay, Message: "shutting down", TransferId: id})
	}
}

func GetHandlerTransferList(log logger.Logger, runs *transfer.SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		all := runs.List()
		items := make([]TransferListItem, 0, len(all))
		for _, ri := range all {
			items = append(items, TransferListItem{
				TransferId:    ri.Id,
				Table:         ri.Request.Table,
				TransferState: ri.Status.State,
			})
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseTransferList{Status: Okay, Transfers: items})
	}
}

func GetHandlerTransferStats(log logger.Logger, runs *transfer.SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)[muxVarTransferId]
		ri, ok := runs.Load(id)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request to fetch stats for transfer ", id, " that doesn't exist.")
			respond(log, w, ResponseTransferStats{Status: Error, Message: fmt.Sprintf("transfer %v does not exist", id)})
			return
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseTransferStats{Status: Okay, StatsSummary: ri.Stats.GetStats()})
	}
}

func GetHandlerTransferStatus(log logger.Logger, runs *transfer.SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)[muxVarTransferId]
		ri, ok := runs.Load(id)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request status of transfer ", id, " that doesn't exist.")
			respond(log, w, ResponseTransferStatus{Status: Error, Message: fmt.Sprintf("transfer %v does not exist", id)})
			return
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseTransferStatus{Status: Okay, TransferStatus: ri.Status, LastProgress: ri.LastProgress})
	}
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Error("error marshalling response: ", err)
		return
	}
	if _, err = w.Write(j); err != nil {
		log.Warn("error writing response: ", err)
	}
}
