package oebb

type coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type journeyFilter struct {
	Type  string `json:"type"`
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

type geoPosRequest struct {
	Rect struct {
		LlCrd coord `json:"llCrd"`
		UrCrd coord `json:"urCrd"`
	} `json:"rect"`
	PerSize  int             `json:"perSize"`
	PerStep  int             `json:"perStep"`
	OnlyRT   bool            `json:"onlyRT"`
	JnyFltrL []journeyFilter `json:"jnyFltrL"`
	Date     string          `json:"date"`
}

type serviceRequest struct {
	Meth string        `json:"meth"`
	Req  geoPosRequest `json:"req"`
	ID   string        `json:"id"`
}

type auth struct {
	Type string `json:"type"`
	AID  string `json:"aid"`
}

type client struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	L    string `json:"l"`
	V    int    `json:"v"`
}

type gateRequest struct {
	ID        string           `json:"id"`
	Ver       string           `json:"ver"`
	Lang      string           `json:"lang"`
	Auth      auth             `json:"auth"`
	Client    client           `json:"client"`
	Formatted bool             `json:"formatted"`
	Ext       string           `json:"ext"`
	SvcReqL   []serviceRequest `json:"svcReqL"`
}

type journeyStop struct {
	ATimeS string `json:"aTimeS"`
	ATimeR string `json:"aTimeR"`
}

type journey struct {
	Pos *struct {
		X int64 `json:"x"`
		Y int64 `json:"y"`
	} `json:"pos"`
	ProdX  *int          `json:"prodX"`
	DirTxt string        `json:"dirTxt"`
	StopL  []journeyStop `json:"stopL"`
}

type product struct {
	Name    string `json:"name"`
	ProdCtx struct {
		CatOutL string `json:"catOutL"`
	} `json:"prodCtx"`
}

type gateResponse struct {
	Err     string `json:"err"`
	SvcResL []struct {
		Err string `json:"err"`
		Res struct {
			Common struct {
				ProdL []product `json:"prodL"`
			} `json:"common"`
			JnyL []journey `json:"jnyL"`
		} `json:"res"`
	} `json:"svcResL"`
}

func newGateRequest(cfg Config, date string) gateRequest {
	req := geoPosRequest{
		PerSize:  35000,
		PerStep:  5000,
		OnlyRT:   true,
		JnyFltrL: []journeyFilter{{Type: "PROD", Mode: "INC", Value: cfg.ProductFilter}},
		Date:     date,
	}
	req.Rect.LlCrd = coord{X: cfg.LowerLeftX, Y: cfg.LowerLeftY}
	req.Rect.UrCrd = coord{X: cfg.UpperRightX, Y: cfg.UpperRightY}

	return gateRequest{
		ID:        "v34xpssuk4asggwg",
		Ver:       "1.88",
		Lang:      "eng",
		Auth:      auth{Type: "AID", AID: cfg.AID},
		Client:    client{ID: "OEBB", Type: "WEB", Name: "webapp", L: "vs_webapp", V: 21804},
		Formatted: false,
		Ext:       "OEBB.14",
		SvcReqL:   []serviceRequest{{Meth: "JourneyGeoPos", Req: req, ID: "1|3|"}},
	}
}
