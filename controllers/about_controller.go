package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AboutAuthor renders the static page about the author.
func AboutAuthor(ctx *gin.Context) {
	render(ctx, http.StatusOK, "author.html", gin.H{"Title": "About the author"})
}

// AboutTech renders the static page about the technologies used.
func AboutTech(ctx *gin.Context) {
	render(ctx, http.StatusOK, "tech.html", gin.H{"Title": "Technologies"})
}
