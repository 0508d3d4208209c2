/*
 *  serve.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const svgContentType = "image/svg+xml"

// Server hosts the interactive page and the static figures of a set of loci
type Server struct {
	Loci *Loci
	View ViewOptions
	Plot PlotOptions
	GC   GCOptions
	Port int

	views []*View
}

// NewRouter builds the routes. Views are built once so that the page and
// /loci.json agree on the view IDs.
func (r *Server) NewRouter() (*gin.Engine, error) {
	views, err := r.Loci.Views(r.View)
	if err != nil {
		return nil, err
	}
	r.views = views

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", r.handlePage)
	router.GET("/loci.json", r.handleViews)
	router.GET("/tags", r.handleTags)
	router.GET("/locus/:index/svg", r.handleLocusSVG)
	router.GET("/locus/:index/gc.svg", r.handleLocusGC)
	return router, nil
}

func (r *Server) handlePage(c *gin.Context) {
	var buf bytes.Buffer
	if err := writePage(&buf, r.Loci.String(), r.views, r.View); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Server) handleViews(c *gin.Context) {
	c.JSON(http.StatusOK, r.views)
}

func (r *Server) handleTags(c *gin.Context) {
	var buf bytes.Buffer
	if err := r.Loci.WriteLocusTags(&buf); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", buf.Bytes())
}

// locus resolves the :index parameter, writing the error response if invalid
func (r *Server) locus(c *gin.Context) (*Locus, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 || i >= len(r.Loci.Loci) {
		c.String(http.StatusNotFound, "no locus at index %s", c.Param("index"))
		return nil, false
	}
	return r.Loci.Loci[i], true
}

func (r *Server) handleLocusSVG(c *gin.Context) {
	locus, ok := r.locus(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := locus.Plot(&buf, r.Plot); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

func (r *Server) handleLocusGC(c *gin.Context) {
	locus, ok := r.locus(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := locus.PlotGC(&buf, r.GC); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

// Run serves on localhost, moving on to the next port while the current one is
// taken
func (r *Server) Run() error {
	gin.SetMode(gin.ReleaseMode)
	router, err := r.NewRouter()
	if err != nil {
		return err
	}
	port := r.Port
	if port <= 0 {
		port = 3000
	}
	for tries := 0; tries < 100; tries++ {
		log.Noticef("Serving %s on http://localhost:%d ...", r.Loci, port)
		err = router.Run(listenAddress(port))
		if err == nil || !isAddrInUse(err) {
			return err
		}
		log.Debug(err)
		port++
	}
	return errors.Wrap(err, "no free port")
}

// listenAddress binds to the loopback interface only
func listenAddress(port int) string {
	return "localhost:" + strconv.Itoa(port)
}

func isAddrInUse(err error) bool {
	return strings.Contains(err.Error(), "address already in use")
}
