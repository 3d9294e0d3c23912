package nist

// ITS90 holds the NIST ITS-90 thermocouple coefficients.
var ITS90 Tables = tableSet{
	TypeJ: {
		Ranges: []Range{
			{0.0, []float64{0.0000000e+00, 1.9528268e+01, -1.2286185e+00, -1.0752178e+00,
				-5.9086933e-01, -1.7256713e-01, -2.8131513e-02, -2.3963370e-03, -8.3823321e-05}},
			{42.919, []float64{0.000000e+00, 1.978425e+01, -2.001204e-01, 1.036969e-02,
				-2.549687e-04, 3.585153e-06, -5.344285e-08, 5.099890e-10}},
			{69.553, []float64{-3.11358187e+03, 3.00543684e+02, -9.94773230e+00, 1.70276630e-01,
				-1.43033468e-03, 4.73886084e-06}},
		},
		Reverse: []float64{0.000000000000e+00, 0.503811878150e-01, 0.304758369300e-04,
			-0.856810657200e-07, 0.132281952950e-09, -0.170529583370e-12, 0.209480906970e-15,
			-0.125383953360e-18, 0.156317256970e-22},
	},
	TypeK: {
		Ranges: []Range{
			{0.00, []float64{0.0000000e+00, 2.5173462e+01, -1.1662878e+00, -1.0833638e+00,
				-8.9773540e-01, -3.7342377e-01, -8.6632643e-02, -1.0450598e-02, -5.1920577e-04}},
			{20.644, []float64{0.000000e+00, 2.508355e+01, 7.860106e-02, -2.503131e-01,
				8.315270e-02, -1.228034e-02, 9.804036e-04, -4.413030e-05, 1.057734e-06, -1.052755e-08}},
			{54.886, []float64{-1.318058e+02, 4.830222e+01, -1.646031e+00, 5.464731e-02,
				-9.650715e-04, 8.802193e-06, -3.110810e-08}},
		},
		Reverse: []float64{-0.176004136860e-01, 0.389212049750e-01, 0.185587700320e-04,
			-0.994575928740e-07, 0.318409457190e-09, -0.560728448890e-12, 0.560750590590e-15,
			-0.320207200030e-18, 0.971511471520e-22, -0.121047212750e-25},
	},
	TypeT: {
		Ranges: []Range{
			{0.00, []float64{0.0000000e+00, 2.5949192e+01, -2.1316967e-01, 7.9018692e-01,
				4.2527777e-01, 1.3304473e-01, 2.0241446e-02, 1.2668171e-03}},
			{20.872, []float64{0.000000e+00, 2.592800e+01, -7.602961e-01, 4.637791e-02,
				-2.165394e-03, 6.048144e-05, -7.293422e-07}},
		},
		Reverse: []float64{0.000000000000e+00, 0.387481063640e-01, 0.332922278800e-04,
			0.206182434040e-06, -0.218822568460e-08, 0.109968809280e-10, -0.308157587720e-13,
			0.454791352900e-16, -0.275129016730e-19},
	},
	TypeE: {
		Ranges: []Range{
			{0.00, []float64{0.0000000e+00, 1.6977288e+01, -4.3514970e-01, -1.5859697e-01,
				-9.2502871e-02, -2.6084314e-02, -4.1360199e-03, -3.4034030e-04, -1.1564890e-05}},
			{76.373, []float64{0.0000000e+00, 1.7057035e+01, -2.3301759e-01, 6.5435585e-03,
				-7.3562749e-05, -1.7896001e-06, 8.4036165e-08, -1.3735879e-09, 1.0629823e-11,
				-3.2447087e-14}},
		},
		Reverse: []float64{0.000000000000e+00, 0.586655087100e-01, 0.450322755820e-04,
			0.289084072120e-07, -0.330568966520e-09, 0.650244032700e-12, -0.191974955040e-15,
			-0.125366004970e-17, 0.214892175690e-20, -0.143880417820e-23, 0.359608994810e-27},
	},
	TypeR: {
		Ranges: []Range{
			{1.923, []float64{0.0000000e+00, 1.8891380e+02, -9.3835290e+01, 1.3068619e+02,
				-2.2703580e+02, 3.5145659e+02, -3.8953900e+02, 2.8239471e+02, -1.2607281e+02,
				3.1353611e+01, -3.3187769e+00}},
			{13.228, []float64{1.334584505e+01, 1.472644573e+02, -1.844024844e+01, 4.031129726e+00,
				-6.249428360e-01, 6.468412046e-02, -4.458750426e-03, 1.994710149e-04,
				-5.313401790e-06, 6.481976217e-08}},
			{19.739, []float64{-8.199599416e+01, 1.553962042e+02, -8.342197663e+00,
				4.279433549e-01, -1.191577910e-02, 1.492290091e-04}},
			{21.103, []float64{3.406177836e+04, -7.023729171e+03, 5.582903813e+02,
				-1.952394635e+01, 2.560740231e-01}},
		},
		Reverse: []float64{0.000000000000e+00, 0.528961729765e-02, 0.139166589782e-04,
			-0.238855693017e-07, 0.356916001063e-10, -0.462347666298e-13, 0.500777441034e-16,
			-0.373105886191e-19, 0.157716482367e-22, -0.281038625251e-26},
	},
	TypeS: {
		Ranges: []Range{
			{1.874, []float64{0.00000000e+00, 1.84949460e+02, -8.00504062e+01, 1.02237430e+02,
				-1.52248592e+02, 1.88821343e+02, -1.59085941e+02, 8.23027880e+01, -2.34181944e+01,
				2.79786260e+00}},
			{11.950, []float64{1.291507177e+01, 1.466298863e+02, -1.534713402e+01, 3.145945973e+00,
				-4.163257839e-01, 3.187963771e-02, -1.291637500e-03, 2.183475087e-05,
				-1.447379511e-07, 8.211272125e-09}},
			{17.536, []float64{-8.087801117e+01, 1.621573104e+02, -8.536869453e+00,
				4.719686976e-01, -1.441693666e-02, 2.081618890e-04}},
			{18.693, []float64{5.333875126e+04, -1.235892298e+04, 1.092657613e+03,
				-4.265693686e+01, 6.247205420e-01}},
		},
		Reverse: []float64{0.000000000000e+00, 0.540313308631e-02, 0.125934289740e-04,
			-0.232477968689e-07, 0.322028823036e-10, -0.331465196389e-13, 0.255744251786e-16,
			-0.125068871393e-19, 0.271443176145e-23},
	},
	TypeB: {
		Ranges: []Range{
			{2.431, []float64{9.8423321e+01, 6.9971500e+02, -8.4765304e+02, 1.0052644e+03,
				-8.3345952e+02, 4.5508542e+02, -1.5523037e+02, 2.9886750e+01, -2.4742860e+00}},
			{13.820, []float64{2.1315071e+02, 2.8510504e+02, -5.2742887e+01, 9.9160804e+00,
				-1.2965303e+00, 1.1195870e-01, -6.0625199e-03, 1.8661696e-04, -2.4878585e-06}},
		},
		Reverse: []float64{0.000000000000e+00, -0.246508183460e-03, 0.590404211710e-05,
			-0.132579316360e-08, 0.156682919010e-11, -0.169445292400e-14, 0.629903470940e-18},
	},
	TypeN: {
		Ranges: []Range{
			{0.00, []float64{0.0000000e+00, 3.8436847e+01, 1.1010485e+00, 5.2229312e+00,
				7.2060525e+00, 5.8488586e+00, 2.7754916e+00, 7.7075166e-01, 1.1582665e-01,
				7.3138868e-03}},
			{20.613, []float64{0.00000e+00, 3.86896e+01, -1.08267e+00, 4.70205e-02, -2.12169e-06,
				-1.17272e-04, 5.39280e-06, -7.98156e-08}},
			{47.513, []float64{1.972485e+01, 3.300943e+01, -3.915159e-01, 9.855391e-03,
				-1.274371e-04, 7.767022e-07}},
		},
		Reverse: []float64{0.000000000000e+00, 0.259293946010e-01, 0.157101418800e-04,
			0.438256272370e-07, -0.252611697940e-09, 0.643118193390e-12, -0.100634715190e-14,
			0.997453389920e-18, -0.608632456070e-21, 0.208492293390e-24, -0.306821961510e-28},
	},
}

// Type K exponential term a·exp(b·(T-c)²), as {a, b, c}.
var kExponential = [3]float64{0.118597600000e+00, -0.118343200000e-03, 0.126968600000e+03}

type tableSet map[Type]*Thermocouple

func (s tableSet) Lookup(t Type) (*Thermocouple, bool) {
	tc, ok := s[t]
	return tc, ok
}
