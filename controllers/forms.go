package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/yatube-go/yatube/config"
	"github.com/yatube-go/yatube/models"
	"github.com/yatube-go/yatube/utils"
)

const (
	invalidChoice = "Select a valid choice. That choice is not one of the available choices."
	requiredField = "This field is required."
)

var registerOnce sync.Once

// RegisterValidators installs the custom validation tags on gin's binding engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := utils.RegisterValidations(v); err != nil {
				utils.Sugar.Errorf("register validators failed: %v", err)
			}
		}
	})
}

// PostForm is the create/edit form for posts.
type PostForm struct {
	Text       string `form:"text" binding:"required,notblank"`
	Group      string `form:"group"`
	ImageClear string `form:"image-clear"`
}

// postFormView is what the template needs to redisplay the form.
type postFormView struct {
	Text    string
	GroupID uint
	Image   string
}

// boundPost is the outcome of binding and validating a post submission.
type boundPost struct {
	Form   PostForm
	Group  *models.Group
	Image  string
	Errors map[string]string
}

func (b *boundPost) Valid() bool { return len(b.Errors) == 0 }

// View returns the redisplay values; current is the image already stored on the post.
func (b *boundPost) View(current string) postFormView {
	v := postFormView{Text: b.Form.Text, Image: current}
	if b.Group != nil {
		v.GroupID = b.Group.ID
	}
	return v
}

// bindPostForm validates text and group, then stores an uploaded image when
// everything else is valid.
func bindPostForm(ctx *gin.Context, db *gorm.DB) *boundPost {
	b := &boundPost{Errors: map[string]string{}}
	if err := ctx.ShouldBind(&b.Form); err != nil {
		b.Errors = utils.FieldErrors(err)
	}
	if _, bad := b.Errors["text"]; !bad && utils.CleanText(b.Form.Text) == "" {
		b.Errors["text"] = requiredField
	}

	if raw := strings.TrimSpace(b.Form.Group); raw != "" {
		group, err := lookupGroup(ctx, db, raw)
		switch {
		case err == nil:
			b.Group = group
		case errors.Is(err, gorm.ErrRecordNotFound):
			b.Errors["group"] = invalidChoice
		default:
			utils.Sugar.Errorf("group lookup failed id=%s err=%v", raw, err)
			b.Errors["group"] = invalidChoice
		}
	}

	fh, err := ctx.FormFile("image")
	switch {
	case err == nil:
		if !b.Valid() {
			// keep the upload out of storage until the form is otherwise valid
			return b
		}
		cfg := config.Get()
		path, err := utils.SaveImage(fh, cfg.MediaRoot, int64(cfg.MaxUploadMB)<<20)
		if err != nil {
			if errors.Is(err, utils.ErrNotAnImage) || errors.Is(err, utils.ErrFileTooLarge) || errors.Is(err, utils.ErrEmptyFile) {
				b.Errors["image"] = err.Error()
			} else {
				utils.Sugar.Errorf("store upload failed: %v", err)
				b.Errors["image"] = "The image could not be saved."
			}
			return b
		}
		b.Image = path
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		b.Errors["image"] = "No file was submitted. Check the encoding type on the form."
	}
	return b
}

func lookupGroup(ctx *gin.Context, db *gorm.DB, raw string) (*models.Group, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var group models.Group
	if err := db.WithContext(ctx.Request.Context()).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// CommentForm is the comment submission form.
type CommentForm struct {
	Text string `form:"text" binding:"required,notblank"`
}

// SignupForm creates a local account.
type SignupForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email,max=255"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// LoginForm authenticates an existing account.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// reservedUsernames collide with top level routes and would make the profile unreachable.
var reservedUsernames = map[string]bool{
	"new": true, "follow": true, "group": true, "about": true,
	"auth": true, "admin": true, "health": true, "media": true,
}
