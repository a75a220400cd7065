package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ib-77/sieve3/pkg/sieve"
)

type errorObj struct {
	Err string `json:"error"`
}

type primesRes struct {
	Primes []int `json:"primes"`
	Count  int   `json:"count"`
}

func sendErr(w http.ResponseWriter, status int, err error, log logrus.FieldLogger) {
	w.Header().Set("Content-Type", "text/json")
	w.WriteHeader(status)
	if err == nil {
		if _, werr := w.Write([]byte("{}\n")); werr != nil {
			log.WithError(werr).Error("writing response")
		}
		return
	}
	log.WithError(err).Error("request failed")
	if werr := json.NewEncoder(w).Encode(&errorObj{Err: err.Error()}); werr != nil {
		log.WithError(werr).Error("writing error response")
	}
}

func maxVar(r *http.Request) (int, error) {
	raw := mux.Vars(r)["max"]
	max, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("serve: max %q is not an integer", raw)
	}
	if max < 2 {
		return 0, fmt.Errorf("serve: max %d out of range", max)
	}
	return max, nil
}

// NewHandler maps URLs to transient sieve pipelines: one pipeline per
// request, torn down before the response completes.
//
//	POST /sieve/run/{max}     -> {"primes":[...],"count":N}
//	GET  /sieve/stream/{max}  -> websocket, one text message per prime
func NewHandler(log logrus.FieldLogger) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := mux.NewRouter().StrictSlash(true)

	r.HandleFunc("/sieve/run/{max}", func(w http.ResponseWriter, r *http.Request) {
		max, err := maxVar(r)
		if err != nil {
			sendErr(w, http.StatusBadRequest, err, log)
			return
		}

		rep, err := sieve.Run(r.Context(), sieve.Config{
			Max:     max,
			OnPrime: func(int) {},
			Log:     log,
		})
		if err != nil {
			sendErr(w, http.StatusInternalServerError, err, log)
			return
		}

		w.Header().Set("Content-Type", "text/json")
		if err := json.NewEncoder(w).Encode(&primesRes{Primes: rep.Primes, Count: len(rep.Primes)}); err != nil {
			log.WithError(err).Error("writing response")
		}
	}).Methods("POST")

	upgrader := websocket.Upgrader{}

	r.HandleFunc("/sieve/stream/{max}", func(w http.ResponseWriter, r *http.Request) {
		max, err := maxVar(r)
		if err != nil {
			sendErr(w, http.StatusBadRequest, err, log)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Error("websocket upgrade failed")
			return
		}
		defer ws.Close()

		// A failed write means the peer went away; cancelling the
		// context is what unwinds the running chain.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		_, err = sieve.Run(ctx, sieve.Config{
			Max: max,
			OnPrime: func(p int) {
				if werr := ws.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("prime %d", p))); werr != nil {
					cancel()
				}
			},
			Log: log,
		})

		code := websocket.CloseNormalClosure
		reason := ""
		if err != nil {
			code = websocket.CloseInternalServerErr
			reason = err.Error()
		}
		if werr := ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason)); werr != nil {
			log.WithError(werr).Debug("writing close message")
		}
	}).Methods("GET")

	return r
}
