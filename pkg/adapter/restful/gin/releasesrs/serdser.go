package releasesrs

import (
	"github.com/Adya-Prasad/djangoproject.com/pkg/adapter/restful/gin/serdser"
	"github.com/Adya-Prasad/djangoproject.com/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type rawClassificationReq struct {
	At string `form:"at" binding:"omitempty,datetime=2006-01-02"`
}

type classificationReq struct {
	At *model.Date
}

type latestMicroReq struct {
	Series string `uri:"series" binding:"required"`
}

type releaseNotesReq struct {
	Version string `uri:"version" binding:"required"`
}

func (rs *resource) DserClassificationReq(c *gin.Context) *classificationReq {
	req := &rawClassificationReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil
	}
	val := &classificationReq{}
	if req.At != "" {
		d := &model.Date{}
		// the datetime binding tag already verified the layout
		if err := d.UnmarshalText([]byte(req.At)); err != nil {
			serdser.SerErr(c, err)
			return nil
		}
		val.At = d
	}
	return val
}
